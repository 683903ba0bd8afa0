package utils

import "github.com/google/uuid"

// IsValidUUID vérifie qu'une chaîne est un UUID bien formé. Utilisé par les
// handlers avant de toucher ScyllaDB pour éviter les erreurs de parse côté
// driver.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
