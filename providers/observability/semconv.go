package observability

// Semantic conventions for observability attributes.
// These constants define standard attribute names to ensure consistency
// across different components of the system.

// --- Session Attributes ---

const (
	// AttrSessionID is the conversation/thread identifier scoping a message log
	AttrSessionID = "session.id"

	// AttrSessionSource is where the session id came from (e.g., "fixed", "expression", "generated")
	AttrSessionSource = "session.source"
)

// --- History Store Attributes ---

const (
	// AttrHistoryBackend is the backing store kind (e.g., "postgres", "redis", "inmemory")
	AttrHistoryBackend = "history.backend"

	// AttrHistoryTable is the table (or key) holding the session log
	AttrHistoryTable = "history.table"

	// AttrHistoryMessageRole is the role of the message being stored
	AttrHistoryMessageRole = "history.message.role"

	// AttrHistoryMessageLength is the length of the message content
	AttrHistoryMessageLength = "history.message.length"

	// AttrHistoryTotalMessages is the total number of messages in the session log
	AttrHistoryTotalMessages = "history.total_messages"

	// AttrHistoryBatchSize is the number of messages in a batched append
	AttrHistoryBatchSize = "history.batch_size"

	// AttrHistoryLimit is the requested message count for a bounded read
	AttrHistoryLimit = "history.limit"
)

// --- Memory Attributes ---

const (
	// AttrMemoryVariant is the memory flavor in use (e.g., "buffer", "window", "tool_aware")
	AttrMemoryVariant = "memory.variant"

	// AttrMemoryKey is the key the transcript is published under
	AttrMemoryKey = "memory.key"

	// AttrMemoryInputKey is the key the user turn is read from
	AttrMemoryInputKey = "memory.input_key"

	// AttrMemoryOutputKey is the key the model turn is read from
	AttrMemoryOutputKey = "memory.output_key"

	// AttrMemoryWindowTurns is the configured window size in conversational turns
	AttrMemoryWindowTurns = "memory.window.turns"

	// AttrMemoryLoadedMessages is the number of messages returned by a load
	AttrMemoryLoadedMessages = "memory.loaded_messages"

	// AttrMemorySavedMessages is the number of messages persisted by a save
	AttrMemorySavedMessages = "memory.saved_messages"

	// AttrMemoryOutputKind is the classified shape of the model output (e.g., "text", "sequence", "opaque")
	AttrMemoryOutputKind = "memory.output.kind"
)

// --- Node Attributes ---

const (
	// AttrNodeVersion is the workflow node version selecting the memory variant
	AttrNodeVersion = "node.version"

	// AttrNodeToolSupport indicates whether the host advertises tool-call capable agents
	AttrNodeToolSupport = "node.tool_support"
)

// --- General Attributes ---

const (
	// AttrError is the error message
	AttrError = "error"

	// AttrErrorType is the error type/class
	AttrErrorType = "error.type"

	// AttrDuration is the operation duration
	AttrDuration = "duration"

	// AttrOperation is the short operation label (e.g., "load", "save", "clear")
	AttrOperation = "operation"

	// AttrStatus is the operation status
	AttrStatus = "status"

	// AttrStatusDescription is the status description
	AttrStatusDescription = "status_description"
)

// --- Span Names ---

const (
	// SpanMemoryLoad is the span name for loading the transcript into host variables
	SpanMemoryLoad = "memory.load"

	// SpanMemorySave is the span name for persisting a conversational turn
	SpanMemorySave = "memory.save"

	// SpanMemoryClear is the span name for wiping a session log
	SpanMemoryClear = "memory.clear"

	// SpanHistorySchema is the span name for history schema provisioning
	SpanHistorySchema = "history.schema"

	// SpanNodeBuild is the span name for assembling a memory from node parameters
	SpanNodeBuild = "node.build"
)

// --- Event Names ---

const (
	// EventHistoryAppend marks when a message is appended to the session log
	EventHistoryAppend = "history.append"

	// EventHistoryClear marks when a session log is cleared
	EventHistoryClear = "history.clear"

	// EventSchemaCreated marks when the backing table was provisioned
	EventSchemaCreated = "history.schema.created"

	// EventOpaqueOutput marks when an unrecognized model output was stringified
	EventOpaqueOutput = "memory.output.opaque"
)

// --- Metric Names ---

const (
	// MetricMemoryLoadCount is the counter for transcript loads
	MetricMemoryLoadCount = "chatmemory.memory.load.count"

	// MetricMemorySaveCount is the counter for persisted turns
	MetricMemorySaveCount = "chatmemory.memory.save.count"

	// MetricMemoryClearCount is the counter for session wipes
	MetricMemoryClearCount = "chatmemory.memory.clear.count"

	// MetricMemoryOperationDuration is the histogram for memory operation duration
	MetricMemoryOperationDuration = "chatmemory.memory.operation.duration"

	// MetricHistoryAppendCount is the counter for store appends
	MetricHistoryAppendCount = "chatmemory.history.append.count"

	// MetricHistoryErrorCount is the counter for store failures
	MetricHistoryErrorCount = "chatmemory.history.error.count"
)
