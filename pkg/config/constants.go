package config

const (
	EnvPrefix = "PRIZEWHEEL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "PRIZEWHEEL_DB_DSN"
	EnvDBHost = "PRIZEWHEEL_DB_HOST"
	EnvDBUser = "PRIZEWHEEL_DB_USER"
	EnvDBName = "PRIZEWHEEL_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
