package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldError     = "error"
	FieldBucket    = "bucket"
	FieldPackage   = "package"
	FieldBackend   = "backend"
	FieldMonths    = "months"
	FieldExchange  = "exchange"
	FieldQueue     = "queue"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentBackend  = "backend"
	ComponentPipeline = "pipeline"
	ComponentAMQP     = "amqp"
)
