// Package mathsolver answers simple shopping and change word problems
// without a model: "3 pencils for ₹10 each ... paid with a ₹100 note".
package mathsolver

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const currencyPattern = `(₹|\$|Rs\.?|INR)`

var (
	triggerKeywords = []string{"how much", "how many", "total", "left", "change", "get back", "amount"}
	changeKeywords  = []string{"get back", "change", "left", "balance"}
	totalKeywords   = []string{"total", "amount", "cost", "price"}

	thousandsRegex = regexp.MustCompile(`(\d),(\d{3})`)
	currencyRegex  = regexp.MustCompile(currencyPattern)
	itemRegex      = regexp.MustCompile(`(?i)(\d+)\s+[\p{L}\p{N}_-]+\s+(?:for|at)\s*` + currencyPattern + `?\s*(\d+)\s*(?:each|ea\.?)`)
	paidRegex      = regexp.MustCompile(`(?i)(?:paid|gave|handed over|paid with)\s*(?:a|an)?\s*` + currencyPattern + `?\s*(\d+)`)
)

// LineItem is one "<count> <thing> for <price> each" phrase.
type LineItem struct {
	Count     decimal.Decimal
	UnitPrice decimal.Decimal
}

// Problem is what the solver could read out of a context paragraph.
type Problem struct {
	Currency  string
	LineItems []LineItem
	Paid      *decimal.Decimal
}

// Subtotal sums count times unit price over all line items.
func (p Problem) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range p.LineItems {
		subtotal = subtotal.Add(item.Count.Mul(item.UnitPrice))
	}
	return subtotal
}

// Extract reads currency, line items and the paid amount from context.
func Extract(context string) Problem {
	ctx := normalizeCommas(context)

	var problem Problem
	if m := currencyRegex.FindStringSubmatch(ctx); m != nil {
		problem.Currency = m[1]
	}

	for _, m := range itemRegex.FindAllStringSubmatch(ctx, -1) {
		count, err := decimal.NewFromString(m[1])
		if err != nil {
			continue
		}
		price, err := decimal.NewFromString(m[3])
		if err != nil {
			continue
		}
		problem.LineItems = append(problem.LineItems, LineItem{Count: count, UnitPrice: price})
	}

	if m := paidRegex.FindStringSubmatch(ctx); m != nil {
		if paid, err := decimal.NewFromString(m[2]); err == nil {
			problem.Paid = &paid
		}
	}

	return problem
}

// TrySolve returns the currency symbol and the answer when the question is a
// change or total question over priced line items. ok is false whenever the
// problem is ambiguous; callers should then ask the model instead.
func TrySolve(context, question string) (symbol string, answer string, ok bool) {
	text := strings.ToLower(context + "\n" + question)
	if !containsAny(text, triggerKeywords) {
		return "", "", false
	}

	problem := Extract(context)
	subtotal := problem.Subtotal()
	if !subtotal.IsPositive() {
		return "", "", false
	}

	// Change questions take precedence over total questions.
	if problem.Paid != nil && containsAny(text, changeKeywords) {
		return problem.Currency, problem.Paid.Sub(subtotal).String(), true
	}
	if containsAny(text, totalKeywords) {
		return problem.Currency, subtotal.String(), true
	}

	return "", "", false
}

// Format joins symbol and answer the way answers are shown to users.
func Format(symbol, answer string) string {
	return symbol + answer
}

// normalizeCommas drops thousands separators and turns every other comma
// into a space so list commas still separate phrases.
func normalizeCommas(s string) string {
	for {
		next := thousandsRegex.ReplaceAllString(s, "$1$2")
		if next == s {
			break
		}
		s = next
	}
	return strings.ReplaceAll(s, ",", " ")
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
