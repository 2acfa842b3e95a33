package config

// AdminConfig describes the bootstrap SUPER_ADMIN account created by
// cmd/setup-admin.  The password has no default.
type AdminConfig struct {
    Username  string
    Email     string
    Password  string
    FirstName string
    LastName  string
}

func LoadAdminConfig() AdminConfig {
    return AdminConfig{
        Username:  envStr("ADMIN_USERNAME", "admin"),
        Email:     envStr("ADMIN_EMAIL", "admin@condominio.local"),
        Password:  must("ADMIN_PASSWORD"),
        FirstName: envStr("ADMIN_FIRST_NAME", "Administrador"),
        LastName:  envStr("ADMIN_LAST_NAME", "Sistema"),
    }
}
