// Package filter provides parsing and SQL encoding of "column:expression"
// filter strings.
//
// This package enables CSV filtering tools to:
//   - Parse command-line filter strings into strongly-typed predicates
//   - Coerce operands to numbers where possible, keeping the raw token
//   - Combine predicates into an AND-only Set and bind it to a column list
//   - Encode parsed predicates to SQL for query-based execution (DuckDB)
//
// # Filter Grammar
//
// A filter is "<column>:<expression>", where the expression selects one
// of six operators:
//
//	"COLOR:red"          COLOR equals red
//	"COLOR:~red"         COLOR does not equal red
//	"YEAR:>1957"         YEAR is greater than 1957 (numbers only)
//	"YEAR:<1957"         YEAR is less than 1957 (numbers only)
//	"COLOR:red|blue"     COLOR is one of red, blue
//	"COLOR:~red|blue"    COLOR is none of red, blue
//
// Membership ('|') is detected before the prefix operators, so a leading
// '~' on a list negates the whole list. Each operand is coerced
// independently: integer first, then float, otherwise it stays a string.
//
// # Basic Usage
//
// Parse command-line filters into a Set:
//
//	set, err := filter.ParseSet([]string{"COLOR:red|blue", "YEAR:>1957"})
//	if err != nil {
//	    return err // *ParseError or *TypeMismatchError
//	}
//
//	// Verify the referenced columns exist
//	if err := set.Bind(tbl.ColumnNames()); err != nil {
//	    return err // *ColumnNotFoundError
//	}
//
// # SQL Encoding
//
// Encode a Set to a DuckDB WHERE clause body:
//
//	enc := filter.NewDuckDBEncoder(nil)
//	where := enc.EncodeSet(set)
//
//	if where != "" {
//	    query := "SELECT * FROM read_csv('input.csv') WHERE " + where
//	}
//
// Map column names when the query target uses different ones:
//
//	enc := filter.NewDuckDBEncoder(&filter.EncoderOptions{
//	    ColumnMapping: map[string]string{
//	        "YEAR": "model_year",
//	    },
//	})
//
// Replace column names with SQL expressions for computed columns:
//
//	enc := filter.NewDuckDBEncoder(&filter.EncoderOptions{
//	    ColumnExpressions: map[string]string{
//	        "FULL_NAME": "CONCAT(first_name, ' ', last_name)",
//	    },
//	})
//
// # Custom Dialects
//
// Implement the Encoder interface for other SQL dialects:
//
//	type PostgreSQLEncoder struct { ... }
//	func (e *PostgreSQLEncoder) Encode(p filter.Predicate) string { ... }
//	func (e *PostgreSQLEncoder) EncodeSet(s filter.Set) string { ... }
package filter
