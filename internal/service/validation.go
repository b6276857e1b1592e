package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/v2/bson"

	"beyondnp-backend/internal/apperr"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s\-()]+$`)
	linkPattern  = regexp.MustCompile(`^https?://`)
)

// invalid converts an ozzo-validation result into an apperr validation
// error carrying the first field message in field order.
func invalid(err error) error {
	if err == nil {
		return nil
	}
	var errs validation.Errors
	if errors.As(err, &errs) {
		keys := make([]string, 0, len(errs))
		for k := range errs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if errs[k] == nil {
				continue
			}
			var nested validation.Errors
			if errors.As(errs[k], &nested) {
				return invalid(nested)
			}
			return apperr.Validation(errs[k].Error())
		}
	}
	var ruleErr validation.Error
	if errors.As(err, &ruleErr) {
		return apperr.Validation(ruleErr.Error())
	}
	return fmt.Errorf("validate: %w", err)
}

// parseID parses a hex object id from a path. Malformed ids are reported as
// not found so callers cannot probe for id shapes.
func parseID(hex, what string) (bson.ObjectID, error) {
	id, err := bson.ObjectIDFromHex(hex)
	if err != nil {
		return bson.NilObjectID, apperr.NotFound(what + " not found")
	}
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeTags trims tags, drops empties and removes duplicates while
// keeping first-seen order.
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if len([]rune(t)) > 20 {
			return nil, apperr.Validation("Tag cannot exceed 20 characters")
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

// bcrypt ignores input past 72 bytes and the hasher rejects it outright.
const maxPasswordBytes = 72

var errPasswordTooLong = validation.NewError("validation_password_too_long", "Password cannot exceed 72 bytes")

func passwordFits(value any) error {
	if s, _ := value.(string); len(s) > maxPasswordBytes {
		return errPasswordTooLong
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
