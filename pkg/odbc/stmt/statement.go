// Copyright 2026 PingCAP, Inc.
// SPDX-License-Identifier: Apache-2.0

// Package stmt executes prepared statements on top of the native layer.
//
// A Statement goes through Compile, Bind and then HasNext/Next until the
// result is exhausted. Bind executes the statement, sending data-at-exec
// parameters in chunks, and Next reads the current row column by column,
// growing the buffer of long columns as the driver asks for it.
package stmt

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pingcap/odbcexec/lib/util/errors"
	"github.com/pingcap/odbcexec/pkg/metrics"
	"github.com/pingcap/odbcexec/pkg/odbc/native"
	"go.uber.org/zap"
)

// State is the execution state of a Statement.
type State int

const (
	StateUnprepared State = iota
	StatePrepared
	StateBound
	StateExecuting
	StateHasRows
	StateRowConsumed
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StateUnprepared:
		return "unprepared"
	case StatePrepared:
		return "prepared"
	case StateBound:
		return "bound"
	case StateExecuting:
		return "executing"
	case StateHasRows:
		return "has-rows"
	case StateRowConsumed:
		return "row-consumed"
	case StateExhausted:
		return "exhausted"
	}
	return "unknown"
}

type cursorState int

const (
	cursorNoRow cursorState = iota
	cursorRowReady
	cursorEnd
)

// Statement owns one native statement handle. It is not safe for concurrent use.
type Statement struct {
	id     string
	lg     *zap.Logger
	opts   Options
	handle native.Stmt

	state    State
	cursor   cursorState
	poisoned bool

	prep      *Preparation
	binder    *Binder
	extractor *Extractor

	extractions []Extraction
	recordSet   *RecordSet
	columns     []*MetaColumn
	affected    int64
	warnings    []native.Diag
}

// New allocates a statement handle on conn.
func New(conn native.Conn, opts Options, lg *zap.Logger) (*Statement, error) {
	handle, rc := conn.AllocStmt()
	if rc.IsError() {
		return nil, nativeError(ErrAllocHandle, "SQLAllocHandle", rc, conn.Diagnostics())
	}
	id := uuid.NewString()
	metrics.OpenStmtGauge.Inc()
	return &Statement{
		id:       id,
		lg:       lg.Named("stmt").With(zap.String("stmt_id", id)),
		opts:     opts.normalize(),
		handle:   handle,
		affected: -1,
	}, nil
}

func (s *Statement) ID() string {
	return s.id
}

func (s *Statement) State() State {
	return s.state
}

// SQL returns the compiled text, or "" before Compile.
func (s *Statement) SQL() string {
	if s.prep == nil {
		return ""
	}
	return s.prep.SQL()
}

func (s *Statement) IsStoredProcedure() bool {
	return s.prep != nil && s.prep.IsStoredProcedure()
}

// Compile prepares the text on the handle. It drops the results and the
// column descriptions of a former compilation.
func (s *Statement) Compile(sql string) (err error) {
	start := time.Now()
	defer func() { s.observe("compile", start, err) }()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.state != StateUnprepared && s.state != StatePrepared {
		return preconditionError("compile", s.state)
	}
	if strings.TrimSpace(sql) == "" {
		return errors.WithStack(ErrEmptyStatement)
	}
	s.resetResult()
	s.prep = nil
	s.state = StateUnprepared
	prep, err := newPreparation(s.handle, sql)
	if err != nil {
		return err
	}
	s.prep = prep
	s.binder = newBinder(s.handle, s.opts, s.lg)
	s.extractor = newExtractor(s.handle, s.opts, s.lg)
	s.state = StatePrepared
	s.lg.Debug("compiled statement", zap.String("sql", sql), zap.Int("params", prep.Params()), zap.Bool("stored_procedure", prep.IsStoredProcedure()))
	return nil
}

// CanBind reports whether Bind may be called.
func (s *Statement) CanBind() bool {
	return s.handle != nil && s.state == StatePrepared
}

// Bind binds the parameters and executes the statement. Data-at-exec
// parameters are streamed before Bind returns, and output bindings hold their
// values afterwards. A failed Bind leaves the statement prepared.
func (s *Statement) Bind(bindings ...Binding) (err error) {
	start := time.Now()
	defer func() { s.observe("execute", start, err) }()
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.state != StatePrepared {
		return preconditionError("bind", s.state)
	}
	if err := s.closeCursor(); err != nil {
		return err
	}
	s.resetResult()
	s.recordSet = nil
	if err := s.binder.Bind(bindings); err != nil {
		s.abort()
		return err
	}
	s.state = StateBound

	s.state = StateExecuting
	op := "SQLExecute"
	rc := s.handle.Execute()
	if rc == native.NeedData {
		op = "SQLParamData"
		if rc, err = s.putData(); err != nil {
			s.cancel()
			s.abort()
			return err
		}
	}
	if rc.IsError() {
		diags := s.handle.Diagnostics()
		s.abort()
		return nativeError(ErrExecute, op, rc, diags)
	}
	s.noteWarnings(rc)
	if err := s.binder.Synchronize(); err != nil {
		s.abort()
		return err
	}
	s.binder.release()
	if err := s.prep.refresh(); err != nil {
		s.abort()
		return err
	}
	if n, rc := s.handle.RowCount(); rc.Succeeded() {
		s.affected = n
	}
	if s.hasData() {
		s.state = StateHasRows
		if len(s.extractions) == 0 {
			s.recordSet = NewRecordSet()
		}
	} else {
		s.state = StateExhausted
	}
	s.lg.Debug("executed statement", zap.Int("columns", s.ColumnsReturned()), zap.Int64("affected_rows", s.affected))
	return nil
}

// putData answers the driver's requests for data-at-exec parameters until
// the execution finishes.
func (s *Statement) putData() (native.Return, error) {
	for {
		pos, rc := s.handle.ParamData()
		if rc != native.NeedData {
			return rc, nil
		}
		if err := s.binder.PutData(pos); err != nil {
			return rc, err
		}
	}
}

// cancel leaves the need-data state of an execution that stopped in the
// middle of the data-at-exec loop. The driver rejects other calls until then.
func (s *Statement) cancel() {
	if rc := s.handle.Cancel(); rc.IsError() {
		s.lg.Warn("cancel execution after failure", zap.String("diags", native.FormatDiags(s.handle.Diagnostics())))
	}
}

// abort returns a failed execution to the prepared state.
func (s *Statement) abort() {
	s.binder.release()
	s.handle.ResetParams()
	if err := s.closeCursor(); err != nil {
		s.lg.Warn("close cursor after failure", zap.Error(err))
	}
	s.resetResult()
	s.state = StatePrepared
}

// HasNext fetches the next row unless one is already waiting. It returns
// false once the result is exhausted or has no columns.
func (s *Statement) HasNext() (bool, error) {
	if err := s.checkOpen(); err != nil {
		return false, err
	}
	if s.state < StateExecuting {
		return false, preconditionError("fetch", s.state)
	}
	if s.poisoned {
		return false, errors.WithStack(errors.Wrapf(ErrInvalidCursorState, "the last row failed, clear the statement first"))
	}
	switch s.cursor {
	case cursorRowReady:
		return true, nil
	case cursorEnd:
		return false, nil
	}
	if s.state == StateExhausted || !s.hasData() {
		return false, nil
	}
	rc := s.handle.Fetch()
	if rc == native.NoData {
		s.cursor = cursorEnd
		s.state = StateExhausted
		return false, nil
	}
	if rc.IsError() {
		diags := s.handle.Diagnostics()
		s.poisoned = true
		metrics.StmtOpCounter.WithLabelValues("fetch", metrics.ResultFail).Inc()
		if native.HasState(diags, native.StateInvalidCursorState) {
			return false, nativeError(ErrInvalidCursorState, "SQLFetch", rc, diags)
		}
		return false, nativeError(ErrFetch, "SQLFetch", rc, diags)
	}
	s.noteWarnings(rc)
	s.cursor = cursorRowReady
	s.state = StateHasRows
	return true, nil
}

// Next extracts the current row, fetching it first if needed. Without
// extractions it uses the ones set by SetExtractions, or the record set.
// A failure leaves the cursor unusable until Clear.
func (s *Statement) Next(extractions ...Extraction) error {
	ok, err := s.HasNext()
	if err != nil {
		return err
	}
	if !ok {
		return errors.WithStack(errors.Wrapf(ErrInvalidCursorState, "no row is available"))
	}
	if len(extractions) == 0 {
		extractions = s.extractions
	}
	if len(extractions) == 0 {
		if s.recordSet == nil {
			s.recordSet = NewRecordSet()
		}
		extractions = []Extraction{s.recordSet}
	}
	if err := s.extractRow(extractions); err != nil {
		s.cursor = cursorNoRow
		s.poisoned = true
		metrics.StmtOpCounter.WithLabelValues("extract", metrics.ResultFail).Inc()
		return err
	}
	s.cursor = cursorNoRow
	s.state = StateRowConsumed
	metrics.RowsFetchedCounter.Inc()
	return nil
}

func (s *Statement) extractRow(extractions []Extraction) error {
	columns, err := s.Columns()
	if err != nil {
		return err
	}
	handled := 0
	for _, ext := range extractions {
		if cb, ok := ext.(columnBinder); ok {
			cb.bindColumns(columns[min(handled, len(columns)):])
		}
		handled += ext.NumColumnsHandled()
	}
	if handled != len(columns) {
		return errors.WithStack(errors.Wrapf(ErrInvalidAccess, "extractions handle %d columns, the result has %d", handled, len(columns)))
	}
	values, err := s.extractor.Row(columns)
	if err != nil {
		return err
	}
	pos := 0
	for _, ext := range extractions {
		n := ext.NumColumnsHandled()
		if err := ext.Extract(values[pos : pos+n]); err != nil {
			return errors.WithStack(err)
		}
		pos += n
	}
	return nil
}

// SetExtractions sets the extractions Next uses when it gets none.
func (s *Statement) SetExtractions(extractions ...Extraction) {
	s.extractions = extractions
}

// RecordSet returns the record set that collects rows when no extraction is
// given, or nil.
func (s *Statement) RecordSet() *RecordSet {
	return s.recordSet
}

// ColumnsReturned is the number of result columns of the last execution.
func (s *Statement) ColumnsReturned() int {
	if s.prep == nil || s.state < StateExecuting {
		return 0
	}
	return s.prep.Columns(s.binder.Outputs(), s.opts.ProcOutputColumns)
}

func (s *Statement) hasData() bool {
	return s.ColumnsReturned() > 0
}

// MetaColumn describes the 0-based result column pos.
func (s *Statement) MetaColumn(pos int) (*MetaColumn, error) {
	if pos < 0 || pos >= s.ColumnsReturned() {
		return nil, invalidColumnError(pos)
	}
	columns, err := s.Columns()
	if err != nil {
		return nil, err
	}
	return columns[pos], nil
}

// Columns describes all result columns. The descriptions are cached until
// the statement is cleared or compiled again.
func (s *Statement) Columns() ([]*MetaColumn, error) {
	n := s.ColumnsReturned()
	if s.columns != nil || n == 0 {
		return s.columns, nil
	}
	columns := make([]*MetaColumn, n)
	for i := 0; i < n; i++ {
		desc, err := s.prep.describe(i)
		if err != nil {
			return nil, err
		}
		columns[i] = newMetaColumn(i, *desc)
	}
	s.columns = columns
	return columns, nil
}

// AffectedRows is the row count of the last execution, or -1 if the driver
// doesn't report it.
func (s *Statement) AffectedRows() int64 {
	return s.affected
}

// Warnings returns the diagnostics of calls that succeeded with info since
// the last execution.
func (s *Statement) Warnings() []native.Diag {
	return append([]native.Diag(nil), s.warnings...)
}

// NativeSQL returns the compiled text as the driver would send it to the data source.
func (s *Statement) NativeSQL() (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}
	if s.prep == nil {
		return "", preconditionError("native sql", s.state)
	}
	out, rc := s.handle.NativeSQL(s.prep.SQL())
	if rc.IsError() {
		return "", nativeError(ErrCompile, "SQLNativeSql", rc, s.handle.Diagnostics())
	}
	return out, nil
}

// Clear closes the cursor and returns the statement to the prepared state.
// It is safe in any state and can be called repeatedly.
func (s *Statement) Clear() error {
	if s.handle == nil {
		return nil
	}
	var err error
	if s.state >= StateBound {
		err = s.closeCursor()
		s.state = StatePrepared
	}
	if s.binder != nil {
		s.binder.release()
	}
	s.resetResult()
	return err
}

// Reset clears the statement and drops the compiled text.
func (s *Statement) Reset() error {
	if err := s.Clear(); err != nil {
		return err
	}
	if s.handle != nil && s.prep != nil {
		s.handle.ResetParams()
	}
	s.prep = nil
	s.binder = nil
	s.extractor = nil
	s.extractions = nil
	s.state = StateUnprepared
	return nil
}

// Close frees the handle. Further calls return ErrClosed, Close itself can be
// called again.
func (s *Statement) Close() error {
	if s.handle == nil {
		return nil
	}
	clearErr := s.Clear()
	var freeErr error
	if rc := s.handle.Free(); rc.IsError() {
		freeErr = nativeError(errCloseStatement, "SQLFreeHandle", rc, s.handle.Diagnostics())
	}
	s.handle = nil
	s.prep = nil
	s.state = StateUnprepared
	metrics.OpenStmtGauge.Dec()
	return errors.Collect(errCloseStatement, clearErr, freeErr)
}

func (s *Statement) checkOpen() error {
	if s.handle == nil {
		return errors.WithStack(ErrClosed)
	}
	return nil
}

// closeCursor closes the cursor of the handle. Closing a handle without an
// open cursor is not an error.
func (s *Statement) closeCursor() error {
	rc := s.handle.CloseCursor()
	if !rc.IsError() {
		return nil
	}
	diags := s.handle.Diagnostics()
	if native.HasState(diags, native.StateInvalidCursorState) {
		return nil
	}
	return nativeError(ErrExecute, "SQLCloseCursor", rc, diags)
}

func (s *Statement) resetResult() {
	s.cursor = cursorNoRow
	s.poisoned = false
	s.columns = nil
	s.affected = -1
	s.warnings = nil
	if s.prep != nil {
		s.prep.reset()
	}
}

func (s *Statement) noteWarnings(rc native.Return) {
	if rc != native.SuccessWithInfo {
		return
	}
	diags := s.handle.Diagnostics()
	s.warnings = append(s.warnings, diags...)
	if len(diags) > 0 {
		s.lg.Debug("statement returned warnings", zap.String("diags", native.FormatDiags(diags)))
	}
}

func (s *Statement) observe(op string, start time.Time, err error) {
	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultFail
	}
	metrics.StmtOpCounter.WithLabelValues(op, result).Inc()
	metrics.StmtOpDurationHistogram.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
