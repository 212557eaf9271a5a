package library

// Book represents a title held by the library. Quantity is the number of
// copies currently on the shelf; TimesRented only ever grows.
type Book struct {
	ID          string `json:"book_id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Quantity    int    `json:"quantity"`
	TimesRented int    `json:"amount_of_times_rented"`
}

// User represents a registered borrower.
type User struct {
	ID       string `json:"user_id"`
	FullName string `json:"full_name"`
	Gender   string `json:"gender"`
	Age      int    `json:"age"`
}

// Rental links a user to a borrowed book. ReturnDate is empty while the
// rental is active and is set exactly once when the book comes back; rental
// rows are never deleted, they are the circulation history.
type Rental struct {
	ID         string `json:"rental_id"`
	UserID     string `json:"user_id"`
	BookID     string `json:"book_id"`
	RentalDate string `json:"rental_date"`
	ReturnDate string `json:"return_date,omitempty"`
}

// Active reports whether the book is still out.
func (r *Rental) Active() bool { return r.ReturnDate == "" }
