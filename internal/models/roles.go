package models

// Rôles canoniques. Une seule table de conversion nom ↔ id numérique pour
// tout le backend : les handlers ne manipulent jamais les ids bruts.
const (
	RoleUser         = "user"
	RoleSalesManager = "sales_manager"
	RoleAdmin        = "admin"
)

var roleIDs = map[string]int{
	RoleUser:         1,
	RoleSalesManager: 2,
	RoleAdmin:        3,
}

var roleNames = map[int]string{
	1: RoleUser,
	2: RoleSalesManager,
	3: RoleAdmin,
}

// RoleID retourne l'id numérique stocké en base pour un nom de rôle.
func RoleID(name string) (int, bool) {
	id, ok := roleIDs[name]
	return id, ok
}

// RoleName retourne le nom canonique pour un id numérique.
func RoleName(id int) (string, bool) {
	name, ok := roleNames[id]
	return name, ok
}

// IsValidRole indique si le nom de rôle fait partie de l'énumération.
func IsValidRole(name string) bool {
	_, ok := roleIDs[name]
	return ok
}
