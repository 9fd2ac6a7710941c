package budget

import "time"

// EntryType mirrors the transaction type of an Entry.
type EntryType string

const (
	Income  EntryType = "income"
	Expense EntryType = "expense"
)

// Definition is the subset of a stored budget the aggregator needs.
type Definition struct {
	Category    string
	Amount      int64
	Period      Period
	StartDate   time.Time
	EndDate     *time.Time
	IsRecurring bool
}

// Validate rejects definitions that must never reach storage: an unknown
// period or an end date before the start date. A non-positive amount is not
// rejected here; Evaluate reports it as BandInvalid.
func (d Definition) Validate() error {
	if !d.Period.Valid() {
		return ErrUnknownPeriod
	}
	if d.EndDate != nil && d.EndDate.Before(d.StartDate) {
		return ErrEndBeforeStart
	}
	return nil
}

// Entry is a single transaction as seen by the aggregator.
type Entry struct {
	Category string
	Amount   int64
	Type     EntryType
	Date     time.Time
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t lies within the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// ResolveWindow returns the active window of d evaluated at now. An explicit
// end date closes the window; otherwise it stays open up to now, whether or
// not the budget is recurring.
func ResolveWindow(d Definition, now time.Time) Window {
	end := now
	if d.EndDate != nil {
		end = *d.EndDate
	}
	return Window{Start: d.StartDate, End: end}
}

// Matches reports whether e counts toward d within w.
func Matches(d Definition, w Window, e Entry) bool {
	return e.Type == Expense && e.Category == d.Category && w.Contains(e.Date)
}

// Result is the aggregator output for one budget.
type Result struct {
	Spent  int64    `json:"spent"`
	Ratio  *float64 `json:"ratio"`
	Band   Band     `json:"band"`
	Window Window   `json:"window"`
}

// Evaluate sums the expense entries matching d inside its window at now and
// classifies the total against the limit. Entries may be pre-filtered by the
// caller; anything outside the window or category is skipped here anyway.
func Evaluate(d Definition, entries []Entry, now time.Time) Result {
	w := ResolveWindow(d, now)

	var spent int64
	for _, e := range entries {
		if Matches(d, w, e) {
			spent += e.Amount
		}
	}

	ratio, band := Classify(spent, d.Amount)
	return Result{Spent: spent, Ratio: ratio, Band: band, Window: w}
}
