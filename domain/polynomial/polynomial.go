package polynomial

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Source is the subset of the RNG port the generator draws from
type Source interface {
	Uniform(min, max float64) float64
	IntRange(min, max int) int
	UnitColumn(n int) []float64
}

// Bounds limits the random shape of a polynomial
type Bounds struct {
	MinVars  int
	MaxVars  int
	MaxTerms int
	MinCoef  float64
	MaxCoef  float64
}

// Spec is the drawn shape: how many variables and terms, and one coefficient per term
type Spec struct {
	NumVars      int
	NumTerms     int
	Coefficients []float64
}

// Define draws the variable count in [MinVars, MaxVars], the term count in
// [1, MaxTerms] and one coefficient per term in [MinCoef, MaxCoef).
func Define(src Source, b Bounds) Spec {
	numVars := src.IntRange(b.MinVars, b.MaxVars)
	numTerms := src.IntRange(1, b.MaxTerms)

	coefficients := make([]float64, numTerms)
	for i := range coefficients {
		coefficients[i] = src.Uniform(b.MinCoef, b.MaxCoef)
	}

	return Spec{
		NumVars:      numVars,
		NumTerms:     numTerms,
		Coefficients: coefficients,
	}
}

// Term is coefficient × Π variable[i]^Exponents[i]
type Term struct {
	Coefficient float64
	Exponents   []int
}

// Polynomial is an explicit term list over the variables v1..vk
type Polynomial struct {
	variables []string
	terms     []Term
}

// Build draws one exponent in [minDegree, maxDegree] for every (term, variable) pair.
func Build(src Source, spec Spec, minDegree, maxDegree int) *Polynomial {
	terms := make([]Term, spec.NumTerms)
	for t := range terms {
		exponents := make([]int, spec.NumVars)
		for v := range exponents {
			exponents[v] = src.IntRange(minDegree, maxDegree)
		}
		terms[t] = Term{Coefficient: spec.Coefficients[t], Exponents: exponents}
	}
	return &Polynomial{
		variables: VariableNames(spec.NumVars),
		terms:     terms,
	}
}

// New assembles a polynomial from explicit terms over numVars variables
func New(numVars int, terms []Term) (*Polynomial, error) {
	if numVars < 1 {
		return nil, fmt.Errorf("polynomial needs at least one variable, got %d", numVars)
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("polynomial needs at least one term")
	}
	for i, term := range terms {
		if len(term.Exponents) != numVars {
			return nil, fmt.Errorf("term %d has %d exponents, want %d", i+1, len(term.Exponents), numVars)
		}
	}
	return &Polynomial{variables: VariableNames(numVars), terms: terms}, nil
}

// VariableNames returns v1..vn
func VariableNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "v" + strconv.Itoa(i+1)
	}
	return names
}

// Variables returns the variable names in column order
func (p *Polynomial) Variables() []string {
	return append([]string(nil), p.variables...)
}

// Terms returns the term list
func (p *Polynomial) Terms() []Term {
	return append([]Term(nil), p.terms...)
}

func (p *Polynomial) NumVars() int  { return len(p.variables) }
func (p *Polynomial) NumTerms() int { return len(p.terms) }

// Expression renders the polynomial as "c1 * (v1**e) * (v2**e) + c2 * ...".
// The text is descriptive only; evaluation never parses it.
func (p *Polynomial) Expression() string {
	terms := make([]string, len(p.terms))
	for t, term := range p.terms {
		factors := make([]string, 0, len(term.Exponents)+1)
		factors = append(factors, strconv.FormatFloat(term.Coefficient, 'g', -1, 64))
		for v, e := range term.Exponents {
			factors = append(factors, fmt.Sprintf("(%s**%d)", p.variables[v], e))
		}
		terms[t] = strings.Join(factors, " * ")
	}
	return strings.Join(terms, " + ")
}

// Evaluate computes the polynomial for every row. columns[i] holds the values of variable i.
func (p *Polynomial) Evaluate(columns [][]float64) ([]float64, error) {
	if len(columns) != len(p.variables) {
		return nil, fmt.Errorf("got %d variable columns, polynomial has %d variables", len(columns), len(p.variables))
	}
	rows := len(columns[0])
	for i, col := range columns {
		if len(col) != rows {
			return nil, fmt.Errorf("column %s has %d rows, want %d", p.variables[i], len(col), rows)
		}
	}

	out := make([]float64, rows)
	prod := make([]float64, rows)
	pow := make([]float64, rows)
	for _, term := range p.terms {
		for i := range prod {
			prod[i] = 1
		}
		for v, e := range term.Exponents {
			if e == 0 {
				continue
			}
			for i, x := range columns[v] {
				pow[i] = math.Pow(x, float64(e))
			}
			floats.Mul(prod, pow)
		}
		floats.AddScaled(out, term.Coefficient, prod)
	}
	return out, nil
}
