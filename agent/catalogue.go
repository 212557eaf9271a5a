package agent

// Parameter describes one typed parameter of a tool.
type Parameter struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Items       map[string]any // item schema for array parameters
}

// Tool is a declarative schema for one invocable domain operation. The
// catalogue is the only channel through which the model learns the
// operations' shapes, so each entry must mirror its handler's signature
// exactly.
type Tool struct {
	Name        string
	Description string
	Parameters  []Parameter
}

// InputSchema renders the tool's parameters as a JSON-schema object.
func (t Tool) InputSchema() map[string]any {
	properties := map[string]any{}
	required := []string{}

	for _, p := range t.Parameters {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Items != nil {
			prop["items"] = p.Items
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Catalogue returns the full tool catalogue, one entry per domain operation.
func Catalogue() []Tool {
	return []Tool{
		{
			Name:        "add_book",
			Description: "Adds a single new book to the library with a specific title, author, ISBN, and quantity.",
			Parameters: []Parameter{
				{Name: "title", Type: "string", Description: "The full title of the book.", Required: true},
				{Name: "author", Type: "string", Description: "The name of the book's author.", Required: true},
				{Name: "isbn", Type: "string", Description: "The unique 13-digit ISBN of the book.", Required: true},
				{Name: "quantity", Type: "integer", Description: "The number of copies of this book to add to the stock.", Required: true},
			},
		},
		{
			Name:        "add_user",
			Description: "Registers a new borrower with their full name, gender, and age.",
			Parameters: []Parameter{
				{Name: "full_name", Type: "string", Description: "The borrower's full name.", Required: true},
				{Name: "gender", Type: "string", Description: "The borrower's gender.", Required: true},
				{Name: "age", Type: "integer", Description: "The borrower's age in years, a positive integer.", Required: true},
			},
		},
		{
			Name:        "delete_book",
			Description: "Deletes a book from the library by its unique book id. This action is permanent and asks the librarian for confirmation at the terminal.",
			Parameters: []Parameter{
				{Name: "book_id", Type: "string", Description: "The unique identifier of the book to delete (e.g. 'book_a1b2c3d4').", Required: true},
			},
		},
		{
			Name:        "delete_user",
			Description: "Deletes a borrower by their unique user id. Fails if the user has any rentals on record. Asks the librarian for confirmation at the terminal.",
			Parameters: []Parameter{
				{Name: "user_id", Type: "string", Description: "The unique identifier of the user to delete (e.g. 'user_a1b2c3d4').", Required: true},
			},
		},
		{
			Name:        "add_rental",
			Description: "Rents a book to a user on a given date. Fails if the user or book does not exist or the book is out of stock.",
			Parameters: []Parameter{
				{Name: "user_id", Type: "string", Description: "The id of the borrowing user.", Required: true},
				{Name: "book_id", Type: "string", Description: "The id of the book being rented.", Required: true},
				{Name: "rental_date", Type: "string", Description: "The rental date as DD/MM/YYYY. Use get_current_date for today.", Required: true},
			},
		},
		{
			Name:        "return_book",
			Description: "Closes an active rental by its rental id and records the return date. Fails if the rental was already returned.",
			Parameters: []Parameter{
				{Name: "rental_id", Type: "string", Description: "The id of the rental being closed.", Required: true},
				{Name: "return_date", Type: "string", Description: "The return date as DD/MM/YYYY. Use get_current_date for today.", Required: true},
			},
		},
		{
			Name:        "fetch_data",
			Description: "Executes a read-only SQL SELECT query against the library database. The query MUST use '?' placeholders for all values in the WHERE clause.",
			Parameters: []Parameter{
				{Name: "query", Type: "string", Description: "The SQL SELECT query string with '?' placeholders.", Required: true},
				{Name: "params", Type: "array", Description: "Parameters to substitute into the query's placeholders. Provide an empty list [] if the query has no parameters.", Required: true, Items: map[string]any{}},
			},
		},
		{
			Name:        "execute_sql",
			Description: "Executes a single high-privilege SQL statement that modifies the database (INSERT, UPDATE, DELETE). Irreversible; the librarian must enter a secret to authorize it. The query MUST use '?' placeholders for all values.",
			Parameters: []Parameter{
				{Name: "query", Type: "string", Description: "The SQL statement with '?' placeholders.", Required: true},
				{Name: "params", Type: "array", Description: "Parameters to substitute into the statement's placeholders. Provide an empty list [] if the statement has no parameters.", Required: true, Items: map[string]any{}},
			},
		},
		{
			Name:        "mass_execute",
			Description: "Executes a list of SQL statements with their parameters in one batch. Each operation is a two-item list of [SQL_query_string, parameters_list]. Irreversible; the librarian must enter a secret to authorize the batch.",
			Parameters: []Parameter{
				{Name: "operations", Type: "array", Description: "The list of operations, each a two-item list containing the SQL string and its parameter list.", Required: true, Items: map[string]any{"type": "array", "items": map[string]any{}}},
			},
		},
		{
			Name:        "get_current_date",
			Description: "Returns the current date as DD/MM/YYYY, for timestamping rentals and returns.",
			Parameters:  []Parameter{},
		},
	}
}
