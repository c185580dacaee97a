package pghistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/leofalp/chatmemory/chat"
)

// TestNew_Defaults verifies that New applies the default table name and
// correctly stores the session ID.
func TestNew_Defaults(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")
	if store.table != defaultTableName || store.quoted != defaultTableName {
		t.Fatalf("expected default table name %q, got %q / %q", defaultTableName, store.table, store.quoted)
	}
	if store.SessionID() != "session-1" {
		t.Fatalf("expected session ID %q, got %q", "session-1", store.SessionID())
	}
}

// TestNew_WithTableName verifies that WithTableName overrides the default
// and sanitizes the name via pgx.Identifier.
func TestNew_WithTableName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithTableName("custom_table"))

	// pgx.Identifier.Sanitize() quotes the name: "custom_table"
	if store.quoted != `"custom_table"` {
		t.Fatalf("expected quoted table name %q, got %q", `"custom_table"`, store.quoted)
	}
	if store.table != "custom_table" {
		t.Fatalf("expected raw table name %q, got %q", "custom_table", store.table)
	}
}

// TestAddMessage_ProvisionsSchemaLazily verifies that the first operation
// issues the CREATE TABLE and CREATE INDEX statements and that subsequent
// operations skip them.
func TestAddMessage_ProvisionsSchemaLazily(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS n8n_chat_histories").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "first", []byte(nil), "", "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if addErr := store.AddMessage(context.Background(), chat.Message{Role: chat.RoleUser, Content: "first"}); addErr != nil {
		t.Fatalf("AddMessage returned unexpected error: %v", addErr)
	}

	// Second operation must not re-run the DDL.
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "second", []byte(nil), "", "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if addErr := store.AddMessage(context.Background(), chat.Message{Role: chat.RoleUser, Content: "second"}); addErr != nil {
		t.Fatalf("AddMessage returned unexpected error: %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessage_SchemaFailureRetriesNextOperation verifies that a failed
// provisioning attempt surfaces the error and is retried by the next
// operation instead of leaving the store permanently broken.
func TestAddMessage_SchemaFailureRetriesNextOperation(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS n8n_chat_histories").
		WillReturnError(fmt.Errorf("permission denied"))

	addErr := store.AddMessage(context.Background(), chat.Message{Role: chat.RoleUser, Content: "hi"})
	if addErr == nil {
		t.Fatalf("expected error from failed schema provisioning, got nil")
	}

	// The retry provisions successfully and the insert goes through.
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS n8n_chat_histories").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "hi", []byte(nil), "", "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if addErr := store.AddMessage(context.Background(), chat.Message{Role: chat.RoleUser, Content: "hi"}); addErr != nil {
		t.Fatalf("AddMessage after schema retry returned unexpected error: %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessage_SimpleMessage verifies that a plain text message triggers
// the correct INSERT with the right parameters.
func TestAddMessage_SimpleMessage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs(
			"session-1",   // session_id
			"user",        // role
			"hello world", // content
			[]byte(nil),   // tool_calls: typed nil []byte matches marshalNullableJSON output
			"",            // tool_call_id
			"",            // name
			[]byte(nil),   // extra: typed nil []byte matches marshalNullableJSON output
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	addErr := store.AddMessage(context.Background(), chat.Message{
		Role:    chat.RoleUser,
		Content: "hello world",
	})
	if addErr != nil {
		t.Fatalf("AddMessage returned unexpected error: %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessage_WithToolCalls verifies JSONB serialization of tool calls.
func TestAddMessage_WithToolCalls(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	toolCalls := []chat.ToolCall{{
		ID:   "call_1",
		Type: "function",
		Function: chat.ToolCallFunction{
			Name:      "get_weather",
			Arguments: `{"city":"NYC"}`,
		},
	}}
	toolCallsJSON, _ := json.Marshal(toolCalls)

	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs(
			"session-1",
			"assistant",
			"",
			toolCallsJSON, // tool_calls serialized
			"",
			"",
			[]byte(nil),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	addErr := store.AddMessage(context.Background(), chat.Message{
		Role:      chat.RoleAssistant,
		ToolCalls: toolCalls,
	})
	if addErr != nil {
		t.Fatalf("AddMessage returned unexpected error: %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessage_PropagatesError verifies that an INSERT failure is wrapped
// and returned to the caller.
func TestAddMessage_PropagatesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	insertErr := fmt.Errorf("insert failed")
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "hello", []byte(nil), "", "", []byte(nil)).
		WillReturnError(insertErr)

	addErr := store.AddMessage(context.Background(), chat.Message{Role: chat.RoleUser, Content: "hello"})
	if addErr == nil {
		t.Fatalf("expected error from AddMessage, got nil")
	}
	if !errors.Is(addErr, insertErr) {
		t.Fatalf("expected wrapped insert error, got %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessages_Atomic verifies the transaction-based batch path when the
// db implements TxQuerier (pgxmock.NewPool satisfies this).
func TestAddMessages_Atomic(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "question", []byte(nil), "", "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "assistant", "answer", []byte(nil), "", "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	addErr := store.AddMessages(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "question"},
		{Role: chat.RoleAssistant, Content: "answer"},
	})
	if addErr != nil {
		t.Fatalf("AddMessages returned unexpected error: %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessages_EmptyBatch verifies that an empty batch does not trigger
// any database interaction.
func TestAddMessages_EmptyBatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	if addErr := store.AddMessages(context.Background(), nil); addErr != nil {
		t.Fatalf("AddMessages returned unexpected error: %v", addErr)
	}

	// No expectations set; pgxmock will fail if any query is executed.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database call for empty batch: %v", err)
	}
}

// TestAddMessages_RollsBackOnInsertError verifies that an INSERT failure
// inside the transaction aborts the whole batch.
func TestAddMessages_RollsBackOnInsertError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	insertErr := fmt.Errorf("constraint violation")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "question", []byte(nil), "", "", []byte(nil)).
		WillReturnError(insertErr)
	mock.ExpectRollback()

	addErr := store.AddMessages(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "question"},
		{Role: chat.RoleAssistant, Content: "answer"},
	})
	if addErr == nil {
		t.Fatalf("expected error from AddMessages, got nil")
	}
	if !errors.Is(addErr, insertErr) {
		t.Fatalf("expected wrapped insert error, got %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessages_BeginError verifies that a Begin transaction error is
// propagated.
func TestAddMessages_BeginError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectBegin().WillReturnError(fmt.Errorf("begin failed"))

	addErr := store.AddMessages(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "x"}})
	if addErr == nil {
		t.Fatal("expected error from Begin, got nil")
	}
	if !strings.Contains(addErr.Error(), "begin failed") {
		t.Errorf("expected 'begin failed' error, got %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestAddMessages_CommitError verifies that a Commit transaction error is
// propagated.
func TestAddMessages_CommitError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO n8n_chat_histories").
		WithArgs("session-1", "user", "x", []byte(nil), "", "", []byte(nil)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit().WillReturnError(fmt.Errorf("commit failed"))

	addErr := store.AddMessages(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "x"}})
	if addErr == nil {
		t.Fatal("expected error from Commit, got nil")
	}
	if !strings.Contains(addErr.Error(), "commit failed") {
		t.Errorf("expected 'commit failed' error, got %v", addErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// onlyQuerier is a hand-written stub that implements Querier but NOT TxQuerier
// (no Begin method). It is used to exercise the addMessagesFallback path,
// which is taken when the db does not support transactions.
type onlyQuerier struct {
	// execCalls counts Exec invocations.
	execCalls int
	// failAt makes the nth Exec call (1-based) return execErr; 0 disables.
	failAt  int
	execErr error
}

func (q *onlyQuerier) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	q.execCalls++
	if q.failAt > 0 && q.execCalls >= q.failAt {
		return pgconn.CommandTag{}, q.execErr
	}
	return pgconn.CommandTag{}, nil
}

func (q *onlyQuerier) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, nil
}

func (q *onlyQuerier) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return nil
}

// TestAddMessages_Fallback_Sequential verifies that addMessagesFallback
// issues one INSERT per message when the db does not support transactions.
func TestAddMessages_Fallback_Sequential(t *testing.T) {
	querier := &onlyQuerier{}
	store := New(querier, "session-1", WithExistingSchema())

	addErr := store.AddMessages(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "one"},
		{Role: chat.RoleAssistant, Content: "two"},
	})
	if addErr != nil {
		t.Fatalf("AddMessages fallback returned unexpected error: %v", addErr)
	}
	if querier.execCalls != 2 {
		t.Fatalf("expected 2 INSERT calls, got %d", querier.execCalls)
	}
}

// TestAddMessages_Fallback_PartialFailure verifies that a mid-batch failure
// in the fallback path leaves the already-inserted prefix in place and
// surfaces the error.
func TestAddMessages_Fallback_PartialFailure(t *testing.T) {
	batchErr := fmt.Errorf("disk full")
	querier := &onlyQuerier{failAt: 2, execErr: batchErr}
	store := New(querier, "session-1", WithExistingSchema())

	addErr := store.AddMessages(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "one"},
		{Role: chat.RoleAssistant, Content: "two"},
	})
	if addErr == nil {
		t.Fatal("expected error from fallback batch, got nil")
	}
	if !errors.Is(addErr, batchErr) {
		t.Errorf("expected wrapped batch error, got %v", addErr)
	}
	if querier.execCalls != 2 {
		t.Fatalf("expected the failing INSERT to be the second call, got %d calls", querier.execCalls)
	}
}

// TestMessages_ReturnsChronologicalOrder verifies that rows are scanned into
// chat.Message values in the correct order.
func TestMessages_ReturnsChronologicalOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1").
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("user", "hi", nil, nil, nil, nil).
				AddRow("assistant", "hello", nil, nil, nil, nil),
		)

	messages, queryErr := store.Messages(context.Background())
	if queryErr != nil {
		t.Fatalf("Messages returned unexpected error: %v", queryErr)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != chat.RoleUser || messages[0].Content != "hi" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != chat.RoleAssistant || messages[1].Content != "hello" {
		t.Fatalf("unexpected second message: %+v", messages[1])
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestMessages_NormalizesRoleAliases verifies that rows written by other
// tools using "human"/"ai" role spellings come back with canonical roles.
func TestMessages_NormalizesRoleAliases(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1").
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("human", "hi", nil, nil, nil, nil).
				AddRow("ai", "hello", nil, nil, nil, nil),
		)

	messages, queryErr := store.Messages(context.Background())
	if queryErr != nil {
		t.Fatalf("Messages returned unexpected error: %v", queryErr)
	}
	if messages[0].Role != chat.RoleUser {
		t.Fatalf("expected 'human' normalized to %q, got %q", chat.RoleUser, messages[0].Role)
	}
	if messages[1].Role != chat.RoleAssistant {
		t.Fatalf("expected 'ai' normalized to %q, got %q", chat.RoleAssistant, messages[1].Role)
	}
}

// TestMessages_EmptyResult verifies that an empty result set returns a
// non-nil empty slice.
func TestMessages_EmptyResult(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1").
		WillReturnRows(pgxmock.NewRows(columns))

	messages, queryErr := store.Messages(context.Background())
	if queryErr != nil {
		t.Fatalf("Messages returned unexpected error: %v", queryErr)
	}
	if messages == nil {
		t.Fatalf("expected non-nil slice for empty result")
	}
	if len(messages) != 0 {
		t.Fatalf("expected 0 messages, got %d", len(messages))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestLastMessages_ZeroOrNegative verifies that n <= 0 returns empty without
// hitting the database.
func TestLastMessages_ZeroOrNegative(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	messages, queryErr := store.LastMessages(context.Background(), 0)
	if queryErr != nil {
		t.Fatalf("LastMessages returned unexpected error: %v", queryErr)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty slice for n=0, got %d", len(messages))
	}

	messages, queryErr = store.LastMessages(context.Background(), -1)
	if queryErr != nil {
		t.Fatalf("LastMessages returned unexpected error: %v", queryErr)
	}
	if len(messages) != 0 {
		t.Fatalf("expected empty slice for n=-1, got %d", len(messages))
	}

	// No DB expectations; pgxmock will fail if any query is executed.
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database call for n <= 0: %v", err)
	}
}

// TestLastMessages_ReturnsCorrectSubset verifies the subquery pattern returns
// the correct messages in chronological order.
func TestLastMessages_ReturnsCorrectSubset(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1", 4).
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("user", "g", nil, nil, nil, nil).
				AddRow("assistant", "h", nil, nil, nil, nil).
				AddRow("user", "i", nil, nil, nil, nil).
				AddRow("assistant", "j", nil, nil, nil, nil),
		)

	messages, queryErr := store.LastMessages(context.Background(), 4)
	if queryErr != nil {
		t.Fatalf("LastMessages returned unexpected error: %v", queryErr)
	}
	if len(messages) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(messages))
	}
	if messages[0].Content != "g" || messages[3].Content != "j" {
		t.Fatalf("unexpected messages: %v", messages)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestCount_ReturnsCorrectValue verifies Count scans the row correctly.
func TestCount_ReturnsCorrectValue(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("session-1").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(42))

	count, queryErr := store.Count(context.Background())
	if queryErr != nil {
		t.Fatalf("Count returned unexpected error: %v", queryErr)
	}
	if count != 42 {
		t.Fatalf("expected count 42, got %d", count)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestCount_PropagatesError verifies that database errors are wrapped and returned.
func TestCount_PropagatesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("session-1").
		WillReturnError(fmt.Errorf("connection refused"))

	_, queryErr := store.Count(context.Background())
	if queryErr == nil {
		t.Fatalf("expected error from Count, got nil")
	}
}

// TestClear_ExecutesDelete verifies that Clear issues a DELETE scoped to the
// session.
func TestClear_ExecutesDelete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	mock.ExpectExec("DELETE FROM n8n_chat_histories").
		WithArgs("session-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 5))

	if clearErr := store.Clear(context.Background()); clearErr != nil {
		t.Fatalf("Clear returned unexpected error: %v", clearErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestClear_PropagatesError verifies that a DELETE failure is wrapped and
// returned instead of being swallowed.
func TestClear_PropagatesError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	deleteErr := fmt.Errorf("delete failed")
	mock.ExpectExec("DELETE FROM n8n_chat_histories").
		WithArgs("session-1").
		WillReturnError(deleteErr)

	clearErr := store.Clear(context.Background())
	if clearErr == nil {
		t.Fatalf("expected error from Clear, got nil")
	}
	if !errors.Is(clearErr, deleteErr) {
		t.Fatalf("expected wrapped delete error, got %v", clearErr)
	}
}

// TestToolCallRoundTrip_JSONDeserialization verifies that tool call JSONB
// stored in rows is correctly deserialized back into chat.ToolCall structs.
func TestToolCallRoundTrip_JSONDeserialization(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	toolCalls := []chat.ToolCall{{
		ID:   "call_abc",
		Type: "function",
		Function: chat.ToolCallFunction{
			Name:      "search",
			Arguments: `{"query":"test"}`,
		},
	}}
	toolCallsJSON, _ := json.Marshal(toolCalls)

	toolCallID := "call_abc"
	toolName := "search"

	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1").
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("assistant", "", toolCallsJSON, nil, nil, nil).
				AddRow("tool", `{"result":"found"}`, nil, &toolCallID, &toolName, nil),
		)

	messages, queryErr := store.Messages(context.Background())
	if queryErr != nil {
		t.Fatalf("Messages returned unexpected error: %v", queryErr)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}

	// Verify assistant message tool calls.
	if len(messages[0].ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(messages[0].ToolCalls))
	}
	if messages[0].ToolCalls[0].ID != "call_abc" {
		t.Fatalf("expected tool call ID 'call_abc', got %q", messages[0].ToolCalls[0].ID)
	}
	if messages[0].ToolCalls[0].Function.Arguments != `{"query":"test"}` {
		t.Fatalf("expected arguments preserved, got %q", messages[0].ToolCalls[0].Function.Arguments)
	}

	// Verify tool response message.
	if messages[1].ToolCallID != "call_abc" {
		t.Fatalf("expected tool_call_id 'call_abc', got %q", messages[1].ToolCallID)
	}
	if messages[1].Name != "search" {
		t.Fatalf("expected name 'search', got %q", messages[1].Name)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestMessages_ExtraRoundTrip verifies that extra JSONB metadata survives the
// scan into the message's Extra map.
func TestMessages_ExtraRoundTrip(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1").
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("assistant", "done", nil, nil, nil, []byte(`{"model":"gpt-4o"}`)),
		)

	messages, queryErr := store.Messages(context.Background())
	if queryErr != nil {
		t.Fatalf("Messages returned unexpected error: %v", queryErr)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if messages[0].Extra["model"] != "gpt-4o" {
		t.Fatalf("expected extra metadata preserved, got %+v", messages[0].Extra)
	}
}

// TestEnsureSchema_ExecutesAllStatements verifies that EnsureSchema issues
// the CREATE TABLE and CREATE INDEX statements, and that subsequent
// operations skip provisioning.
func TestEnsureSchema_ExecutesAllStatements(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS n8n_chat_histories").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").
		WillReturnResult(pgxmock.NewResult("CREATE INDEX", 0))

	if schemaErr := store.EnsureSchema(context.Background()); schemaErr != nil {
		t.Fatalf("EnsureSchema returned unexpected error: %v", schemaErr)
	}

	// Operations after an explicit EnsureSchema must not re-run the DDL.
	mock.ExpectExec("DELETE FROM n8n_chat_histories").
		WithArgs("session-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	if clearErr := store.Clear(context.Background()); clearErr != nil {
		t.Fatalf("Clear returned unexpected error: %v", clearErr)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestEnsureSchema_PropagatesTableError verifies that a table creation failure
// is returned without attempting index creation.
func TestEnsureSchema_PropagatesTableError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS n8n_chat_histories").
		WillReturnError(fmt.Errorf("permission denied"))

	schemaErr := store.EnsureSchema(context.Background())
	if schemaErr == nil {
		t.Fatalf("expected error from EnsureSchema, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestEnsureSchema_PropagatesIndexError verifies that a failure on the index
// creation is returned after the table statement succeeds.
func TestEnsureSchema_PropagatesIndexError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1")

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS n8n_chat_histories").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("CREATE INDEX IF NOT EXISTS").
		WillReturnError(fmt.Errorf("index creation failed"))

	schemaErr := store.EnsureSchema(context.Background())
	if schemaErr == nil {
		t.Fatal("expected error from EnsureSchema on index, got nil")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

// TestScanMessages_RowsIterationError verifies that an error surfaced by
// rows.Err() after iteration is propagated by Messages.
func TestScanMessages_RowsIterationError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	defer mock.Close()

	store := New(mock, "session-1", WithExistingSchema())

	iterErr := fmt.Errorf("network interrupted during iteration")
	columns := []string{"role", "content", "tool_calls", "tool_call_id", "name", "extra"}

	// Add one valid row, then inject a close error so rows.Err() fires after the loop.
	mock.ExpectQuery("SELECT role, content").
		WithArgs("session-1").
		WillReturnRows(
			pgxmock.NewRows(columns).
				AddRow("user", "hi", nil, nil, nil, nil).
				CloseError(iterErr),
		)

	_, queryErr := store.Messages(context.Background())
	if queryErr == nil {
		t.Fatal("expected error from rows.Err(), got nil")
	}
	if !errors.Is(queryErr, iterErr) {
		t.Errorf("expected wrapped iterErr, got %v", queryErr)
	}
}

// TestMarshalNullableJSON_EmptyValuesReturnNil verifies that empty
// collections produce nil (SQL NULL) instead of "[]" or "{}".
func TestMarshalNullableJSON_EmptyValuesReturnNil(t *testing.T) {
	testCases := []struct {
		name  string
		value any
	}{
		{"empty ToolCall slice", []chat.ToolCall{}},
		{"nil ToolCall slice", []chat.ToolCall(nil)},
		{"empty extra map", map[string]any{}},
		{"nil extra map", map[string]any(nil)},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			result, err := marshalNullableJSON(testCase.value)
			if err != nil {
				t.Fatalf("marshalNullableJSON returned unexpected error: %v", err)
			}
			if result != nil {
				t.Fatalf("expected nil for %s, got %s", testCase.name, string(result))
			}
		})
	}
}

// TestMarshalNullableJSON_NonEmptyValuesReturnJSON verifies that populated
// collections produce valid JSON.
func TestMarshalNullableJSON_NonEmptyValuesReturnJSON(t *testing.T) {
	toolCalls := []chat.ToolCall{{ID: "call_1", Type: "function"}}
	result, err := marshalNullableJSON(toolCalls)
	if err != nil {
		t.Fatalf("marshalNullableJSON returned unexpected error: %v", err)
	}
	if result == nil {
		t.Fatalf("expected non-nil JSON for non-empty slice")
	}

	var deserialized []chat.ToolCall
	if err := json.Unmarshal(result, &deserialized); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}
	if len(deserialized) != 1 || deserialized[0].ID != "call_1" {
		t.Fatalf("unexpected deserialized result: %v", deserialized)
	}
}

// TestDerefString verifies nil and non-nil pointer dereferencing.
func TestDerefString(t *testing.T) {
	if result := derefString(nil); result != "" {
		t.Fatalf("expected empty string for nil, got %q", result)
	}

	value := "hello"
	if result := derefString(&value); result != "hello" {
		t.Fatalf("expected %q, got %q", "hello", result)
	}
}
