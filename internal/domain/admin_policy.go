package domain

// AdminPolicy decide si un email pertenece a un administrador de la
// plataforma. La lista se carga una sola vez al arranque desde configuración
// de despliegue y es de solo lectura: los administradores no viven en el
// store de credenciales, así que un compromiso de la capa de datos no puede
// escalar privilegios.
type AdminPolicy struct {
	emails map[string]struct{}
}

// NewAdminPolicy construye la política con la lista de emails permitidos.
func NewAdminPolicy(emails []string) *AdminPolicy {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return &AdminPolicy{emails: set}
}

// IsAdministrator hace un test de pertenencia exacto y case-sensitive.
// Los emails de usuario se guardan en minúsculas, por lo que la lista de
// configuración debe declararse en minúsculas.
func (p *AdminPolicy) IsAdministrator(email string) bool {
	_, ok := p.emails[email]
	return ok
}
