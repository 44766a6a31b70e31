package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "distribo"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvDBDSN  = "DISTRIBO_DB_DSN"
	EnvDBHost = "DISTRIBO_DB_HOST"
	EnvDBUser = "DISTRIBO_DB_USER"
	EnvDBName = "DISTRIBO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
