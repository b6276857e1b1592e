package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

type templateData struct {
	Name string
	Code string
}

var verificationTemplate = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f8f9fa;">
	<div style="background-color: white; padding: 30px; border-radius: 10px;">
		<h1 style="color: #4800FF; text-align: center;">Beyond NP</h1>
		<h2 style="color: #333;">Welcome {{.Name}}!</h2>
		<p style="color: #555; font-size: 16px;">Please verify your email address to finish creating your account.</p>
		<div style="background-color: #4800FF; color: white; font-size: 32px; font-weight: bold; padding: 15px 30px; border-radius: 8px; letter-spacing: 5px; text-align: center;">
			{{.Code}}
		</div>
		<p style="color: #666; font-size: 14px;">This code expires in 10 minutes. If you did not create an account, ignore this email.</p>
	</div>
</div>`))

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f8f9fa;">
	<div style="background-color: white; padding: 30px; border-radius: 10px;">
		<h1 style="color: #4800FF; text-align: center;">Beyond NP</h1>
		<h2 style="color: #333;">Welcome aboard, {{.Name}}!</h2>
		<p style="color: #555; font-size: 16px;">Your email is verified. Start shortlisting universities, organising notes and tracking your application documents.</p>
	</div>
</div>`))

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}
