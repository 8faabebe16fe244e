package entities

// Identity é a visão resolvida de um usuário autenticado: rol, nível de acesso
// e conjunto de permissões achatado.
type Identity struct {
	UserID      uint
	Name        string
	Email       string
	Role        string
	RoleID      *uint
	AccessLevel AccessLevel
	Permissions PermissionSet
}

// RestrictedIdentity é a interpretação mais restritiva de uma identidade
func RestrictedIdentity(userID uint) *Identity {
	return &Identity{
		UserID:      userID,
		AccessLevel: AccessLevelStandard,
		Permissions: EmptyPermissionSet(),
	}
}

// ResolveIdentity monta a identidade a partir do usuário e do rol (que pode não existir).
// Nunca falha: rol ausente resulta em conjunto vazio. Se o usuário aponta para um rol
// que não foi encontrado, o nível também cai para o padrão.
func ResolveIdentity(user *User, role *Role) *Identity {
	if user == nil {
		return RestrictedIdentity(0)
	}

	identity := &Identity{
		UserID:      user.ID,
		Name:        user.Name,
		Email:       user.Email.String(),
		RoleID:      user.RoleID,
		AccessLevel: user.EffectiveAccessLevel(),
		Permissions: EmptyPermissionSet(),
	}

	switch {
	case role != nil:
		identity.Role = role.Name
		identity.Permissions = role.PermissionSet()
	case user.RoleID != nil:
		identity.AccessLevel = AccessLevelStandard
	}

	return identity
}

func (i *Identity) HasPermission(resource, action string) bool {
	if i == nil {
		return false
	}
	return i.Permissions.HasPermission(resource, action)
}

func (i *Identity) HasAnyPermission(pairs []Capability) bool {
	if i == nil {
		return len(pairs) == 0
	}
	return i.Permissions.HasAnyPermission(pairs)
}

// CanSeeAdministrativeArea: nível 0 sempre; nível 1 se tiver alguma permissão administrativa; nível 2 nunca
func (i *Identity) CanSeeAdministrativeArea() bool {
	if i == nil {
		return false
	}
	switch i.AccessLevel {
	case AccessLevelFull:
		return true
	case AccessLevelConditional:
		return i.Permissions.HasAnyPermission(AdministrativeCapabilities)
	default:
		return false
	}
}
