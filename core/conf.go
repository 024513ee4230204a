package core

type Conf struct {
	Version              string `long:"version" description:"version of bloch engine" env:"BLOCH_ENGINE_VERSION"`
	DevMode              bool   `long:"dev-mode" description:"run in dev mode" env:"BLOCH_ENGINE_DEV_MODE"`
	DisableStdoutLog     bool   `long:"disable-stdout-log" description:"do not log in standard output" env:"BLOCH_ENGINE_DISABLE_STDOUT_LOG"`
	EnableFileLog        bool   `long:"enable-file-log" description:"enable log in file" env:"BLOCH_ENGINE_ENABLE_FILE_LOG"`
	LogDir               string `long:"log-dir" description:"rotating log file dir" default:"./shares/logs" env:"BLOCH_ENGINE_LOG_DIR"`
	LogLevel             string `long:"log-level" description:"log level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" env:"BLOCH_ENGINE_LOG_LEVEL"`
	LogRotationMaxDays   int    `long:"log-rotation-max-days" description:"max days of log rotation" default:"7" env:"BLOCH_ENGINE_LOG_ROTATION_MAX_DAYS"`
	QueueMaxSize         int    `long:"queue-max-size" description:"queue max size" default:"100" env:"BLOCH_ENGINE_QUEUE_MAX_SIZE"`
	QueueRefillThreshold int    `long:"queue-refill-threshold" description:"queue refill threshold" default:"10" env:"BLOCH_ENGINE_QUEUE_REFILL_THRESHOLD"`
	MaxQubits            int    `long:"max-qubits" description:"max qubit count accepted per circuit" default:"10" env:"BLOCH_ENGINE_MAX_QUBITS"`
	GateSet              string `long:"gate-set" description:"operator catalog" default:"exact" choice:"exact" choice:"legacy" env:"BLOCH_ENGINE_GATE_SET"`
	SettingPath          string `long:"setting-path" description:"setting file path" default:"./setting/setting.toml" env:"BLOCH_ENGINE_SETTING_PATH"`
}
