package validation

import "strings"

// GenerateBlogRequest mirrors the fields needed for blog generation validation.
type GenerateBlogRequest struct {
	Topic    string
	Keywords string
}

// ValidateGenerateBlogRequest validates a blog generation request. It must
// reject incomplete requests before the upstream provider is contacted.
func ValidateGenerateBlogRequest(req GenerateBlogRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.Topic) == "" {
		errs = append(errs, FieldError{Field: "topic", Message: "topic is required"})
	} else if len(req.Topic) > 500 {
		errs = append(errs, FieldError{Field: "topic", Message: "topic must be at most 500 characters"})
	}

	if strings.TrimSpace(req.Keywords) == "" {
		errs = append(errs, FieldError{Field: "keywords", Message: "keywords is required"})
	} else if len(req.Keywords) > 500 {
		errs = append(errs, FieldError{Field: "keywords", Message: "keywords must be at most 500 characters"})
	}

	return errs
}
