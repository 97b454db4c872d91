package config

const (
	// EnvPrefix is passed to envconfig.Process; the per-field tags carry the
	// full variable names so the prefix stays empty-compatible.
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "FASTCOMMAND_DB_DSN"
	EnvDBHost = "FASTCOMMAND_DB_HOST"
	EnvDBUser = "FASTCOMMAND_DB_USER"
	EnvDBName = "FASTCOMMAND_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
