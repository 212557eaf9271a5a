package agent

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/bilalammar/library-management-system/library"
)

// handler executes one domain operation against validated arguments.
type handler func(args map[string]any) (string, error)

// Dispatcher routes tool calls to the Librarian through an explicit,
// statically enumerated allow-list. A name that is not in the table is
// rejected; nothing else is reachable from untrusted call input. Arguments
// are validated against the catalogue's JSON schema before the handler runs,
// and every dispatch is recorded in the audit log.
type Dispatcher struct {
	librarian *library.Librarian
	catalogue []Tool
	handlers  map[string]handler
	schemas   map[string]*gojsonschema.Schema
	audit     zerolog.Logger
}

// NewDispatcher builds the dispatch table and compiles the argument schemas.
func NewDispatcher(librarian *library.Librarian, audit zerolog.Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		librarian: librarian,
		catalogue: Catalogue(),
		handlers:  map[string]handler{},
		schemas:   map[string]*gojsonschema.Schema{},
		audit:     audit,
	}

	d.handlers["add_book"] = func(args map[string]any) (string, error) {
		return librarian.AddBook(argString(args, "title"), argString(args, "author"),
			argString(args, "isbn"), argInt(args, "quantity"))
	}
	d.handlers["add_user"] = func(args map[string]any) (string, error) {
		return librarian.AddUser(argString(args, "full_name"), argString(args, "gender"),
			argInt(args, "age"))
	}
	d.handlers["delete_book"] = func(args map[string]any) (string, error) {
		return librarian.DeleteBook(argString(args, "book_id"))
	}
	d.handlers["delete_user"] = func(args map[string]any) (string, error) {
		return librarian.DeleteUser(argString(args, "user_id"))
	}
	d.handlers["add_rental"] = func(args map[string]any) (string, error) {
		return librarian.AddRental(argString(args, "user_id"), argString(args, "book_id"),
			argString(args, "rental_date"))
	}
	d.handlers["return_book"] = func(args map[string]any) (string, error) {
		return librarian.ReturnBook(argString(args, "rental_id"), argString(args, "return_date"))
	}
	d.handlers["fetch_data"] = func(args map[string]any) (string, error) {
		return librarian.FetchData(argString(args, "query"), argSlice(args, "params")), nil
	}
	d.handlers["execute_sql"] = func(args map[string]any) (string, error) {
		return librarian.ExecuteSQL(argString(args, "query"), argSlice(args, "params"))
	}
	d.handlers["mass_execute"] = func(args map[string]any) (string, error) {
		stmts, err := decodeStatements(args["operations"])
		if err != nil {
			return "", err
		}
		return librarian.MassExecute(stmts)
	}
	d.handlers["get_current_date"] = func(map[string]any) (string, error) {
		return librarian.CurrentDate(), nil
	}

	for _, tool := range d.catalogue {
		if _, ok := d.handlers[tool.Name]; !ok {
			return nil, fmt.Errorf("catalogue entry %q has no handler", tool.Name)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(tool.InputSchema()))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %q: %w", tool.Name, err)
		}
		d.schemas[tool.Name] = schema
	}
	if len(d.handlers) != len(d.catalogue) {
		return nil, fmt.Errorf("dispatch table and catalogue disagree: %d handlers, %d tools",
			len(d.handlers), len(d.catalogue))
	}

	return d, nil
}

// Catalogue returns the declared tool catalogue backing this dispatcher.
func (d *Dispatcher) Catalogue() []Tool { return d.catalogue }

// Dispatch runs one tool call and returns its string-serialized result.
// Failures of any kind come back as descriptive strings; nothing is raised
// past this boundary.
func (d *Dispatcher) Dispatch(call ToolCall) string {
	args := call.Arguments
	if args == nil {
		args = map[string]any{}
	}

	h, ok := d.handlers[call.Name]
	if !ok {
		result := fmt.Sprintf("ERROR: unknown tool '%s'", call.Name)
		d.record(call, args, "rejected", result)
		return result
	}

	if schema := d.schemas[call.Name]; schema != nil {
		validation, err := schema.Validate(gojsonschema.NewGoLoader(args))
		if err != nil {
			result := fmt.Sprintf("ERROR: invalid arguments for '%s': %v", call.Name, err)
			d.record(call, args, "rejected", result)
			return result
		}
		if !validation.Valid() {
			result := fmt.Sprintf("ERROR: invalid arguments for '%s': %s", call.Name, validation.Errors()[0])
			d.record(call, args, "rejected", result)
			return result
		}
	}

	result, err := h(args)
	if err != nil {
		result = fmt.Sprintf("ERROR: %v", err)
		d.record(call, args, "failure", result)
		return result
	}

	d.record(call, args, "success", result)
	return result
}

func (d *Dispatcher) record(call ToolCall, args map[string]any, status, result string) {
	d.audit.Log().
		Str("tool", call.Name).
		Str("call_id", call.ID).
		Interface("arguments", args).
		Str("status", status).
		Str("result", result).
		Msg("tool dispatched")
}

// ---------------------------------------------------------------------------
// Argument decoding
// ---------------------------------------------------------------------------

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// argInt tolerates the float64 that JSON numbers decode to.
func argInt(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func argSlice(args map[string]any, key string) []any {
	s, _ := args[key].([]any)
	return s
}

// decodeStatements unpacks the mass_execute operations argument: a list of
// two-item [query, params] lists.
func decodeStatements(raw any) ([]library.Statement, error) {
	ops, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("operations must be a list of [query, params] pairs")
	}

	stmts := make([]library.Statement, 0, len(ops))
	for i, op := range ops {
		pair, ok := op.([]any)
		if !ok || len(pair) == 0 || len(pair) > 2 {
			return nil, fmt.Errorf("operation %d must be a two-item [query, params] list", i+1)
		}
		query, ok := pair[0].(string)
		if !ok {
			return nil, fmt.Errorf("operation %d: query must be a string", i+1)
		}
		var params []any
		if len(pair) == 2 && pair[1] != nil {
			params, ok = pair[1].([]any)
			if !ok {
				return nil, fmt.Errorf("operation %d: params must be a list", i+1)
			}
		}
		stmts = append(stmts, library.Statement{Query: query, Params: params})
	}
	return stmts, nil
}
