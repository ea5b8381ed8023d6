package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldRecordID   = "record_id"
	FieldRecordKind = "record_kind"
	FieldTitle      = "title"
	FieldAmount     = "amount"
	FieldCurrency   = "currency"
	FieldCount      = "count"
	FieldDuration   = "duration_ms"
	FieldMetric     = "metric"
	FieldQueue      = "queue"
	FieldExchange   = "exchange"
	FieldIntent     = "intent"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentLedger    = "ledger"
	ComponentMetrics   = "metrics"
	ComponentScanner   = "scanner"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentAssistant = "assistant"
	ComponentBackup    = "backup"
	ComponentNotify    = "notify"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpRead     = "read"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpList     = "list"
	OpScan     = "scan"
	OpPublish  = "publish"
	OpConsume  = "consume"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)
