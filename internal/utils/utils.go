package utils

import (
	"strings"

	"github.com/google/uuid"
)

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Slugify normalizes a user-submitted slug: lowercase, trimmed,
// spaces collapsed to single dashes. It does not invent a slug from
// a title; the form always submits one.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Join(strings.Fields(s), "-")
}
