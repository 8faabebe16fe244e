package entities

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	domainerrors "github.com/rafabene/orquesta-admin/internal/domain/errors"
)

// Wildcard casa com qualquer recurso ou ação
const Wildcard = "*"

var ErrInvalidCapability = fmt.Errorf("capability must be resource:action: %w", domainerrors.ErrInvalidPermission)

// Capability é um par recurso:ação (ex.: "alumnos:read")
type Capability struct {
	Resource string
	Action   string
}

// NewCapability cria uma Capability
func NewCapability(resource, action string) Capability {
	return Capability{Resource: resource, Action: action}
}

// ParseCapability interpreta "recurso:ação". O valor "*" sozinho equivale a "*:*".
func ParseCapability(raw string) (Capability, error) {
	raw = strings.TrimSpace(raw)
	if raw == Wildcard {
		return Capability{Resource: Wildcard, Action: Wildcard}, nil
	}

	resource, action, ok := strings.Cut(raw, ":")
	resource = strings.TrimSpace(resource)
	action = strings.TrimSpace(action)
	if !ok || resource == "" || action == "" || strings.Contains(action, ":") {
		return Capability{}, ErrInvalidCapability
	}

	return Capability{Resource: resource, Action: action}, nil
}

func (c Capability) String() string {
	return c.Resource + ":" + c.Action
}

// AdministrativeCapabilities são os pares que liberam a área administrativa para o nível 1
var AdministrativeCapabilities = []Capability{
	{Resource: "roles", Action: "read"},
	{Resource: "users", Action: "read"},
	{Resource: "programs", Action: "read"},
	{Resource: "instruments", Action: "read"},
	{Resource: "representatives", Action: "read"},
	{Resource: "staff", Action: "read"},
	{Resource: "personalization", Action: "read"},
}

// PermissionSet é um conjunto imutável de capabilities.
// O valor zero é o conjunto vazio (nega tudo).
type PermissionSet struct {
	set map[string]struct{}
}

// NewPermissionSet cria um conjunto a partir de strings "recurso:ação".
// Entradas inválidas são ignoradas.
func NewPermissionSet(perms []string) PermissionSet {
	set := make(map[string]struct{}, len(perms))
	for _, p := range perms {
		c, err := ParseCapability(p)
		if err != nil {
			continue
		}
		set[c.String()] = struct{}{}
	}
	return PermissionSet{set: set}
}

// EmptyPermissionSet retorna o conjunto vazio
func EmptyPermissionSet() PermissionSet {
	return PermissionSet{}
}

// HasPermission verifica "*:*", "recurso:*" ou o par exato
func (p PermissionSet) HasPermission(resource, action string) bool {
	if len(p.set) == 0 {
		return false
	}
	for _, key := range []string{
		Wildcard + ":" + Wildcard,
		resource + ":" + Wildcard,
		resource + ":" + action,
	} {
		if _, ok := p.set[key]; ok {
			return true
		}
	}
	return false
}

// HasAnyPermission retorna true se a lista for vazia (sem restrição) ou se algum par casar
func (p PermissionSet) HasAnyPermission(pairs []Capability) bool {
	if len(pairs) == 0 {
		return true
	}
	for _, c := range pairs {
		if p.HasPermission(c.Resource, c.Action) {
			return true
		}
	}
	return false
}

// Len retorna o número de capabilities
func (p PermissionSet) Len() int {
	return len(p.set)
}

// Strings retorna as capabilities em ordem alfabética
func (p PermissionSet) Strings() []string {
	out := make([]string, 0, len(p.set))
	for k := range p.set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// permissionDocument é o formato objeto dos dados de permissão de um rol
type permissionDocument struct {
	Permisos    []string `json:"permisos"`
	Permissions []string `json:"permissions"`
	NivelAcceso *int     `json:"nivel_acceso"`
	AccessLevel *int     `json:"access_level"`
}

// PermissionData é o conteúdo da coluna rol.permisos já interpretado
type PermissionData struct {
	Permissions []string
	// Override é o nível de acesso explícito do rol, se houver
	Override *AccessLevel
}

// ParsePermissionData aceita um array JSON de capabilities ou um objeto
// {"permisos": [...], "nivel_acceso": n}. Dados vazios ou inválidos resultam
// em nenhum privilégio.
func ParsePermissionData(raw []byte) PermissionData {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return PermissionData{}
	}

	var list []string
	if err := json.Unmarshal([]byte(trimmed), &list); err == nil {
		return PermissionData{Permissions: list}
	}

	var doc permissionDocument
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return PermissionData{}
	}

	data := PermissionData{Permissions: doc.Permisos}
	if len(data.Permissions) == 0 {
		data.Permissions = doc.Permissions
	}

	override := doc.NivelAcceso
	if override == nil {
		override = doc.AccessLevel
	}
	if override != nil {
		if level, err := NewAccessLevel(*override); err == nil {
			data.Override = &level
		}
	}

	return data
}

// EncodePermissionData serializa a lista de capabilities preservando o override, se houver
func EncodePermissionData(data PermissionData) ([]byte, error) {
	perms := data.Permissions
	if perms == nil {
		perms = []string{}
	}
	if data.Override == nil {
		return json.Marshal(perms)
	}
	level := int(*data.Override)
	return json.Marshal(permissionDocument{Permisos: perms, NivelAcceso: &level})
}
