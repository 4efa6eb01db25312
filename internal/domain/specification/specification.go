// Package specification compone criterios de búsqueda como predicados reutilizables.
// Cada Spec se evalúa en memoria (IsSatisfiedBy) o se traduce a un predicado SQL parametrizado.
package specification

import (
	"strconv"
	"strings"
)

// Args acumula los parámetros posicionales ($1, $2, ...) de un predicado SQL.
type Args struct {
	values []any
}

// NewArgs crea un acumulador con los parámetros que la consulta ya usa.
func NewArgs(initial ...any) *Args {
	return &Args{values: append(make([]any, 0, len(initial)+4), initial...)}
}

// Add registra v y devuelve su marcador posicional.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return "$" + strconv.Itoa(len(a.values))
}

// Values devuelve los parámetros en orden.
func (a *Args) Values() []any { return a.values }

// Len número de parámetros registrados.
func (a *Args) Len() int { return len(a.values) }

// Spec es un predicado sobre T.
type Spec[T any] interface {
	IsSatisfiedBy(candidate T) bool
	SQL(args *Args) string
}

type trueSpec[T any] struct{}

func (trueSpec[T]) IsSatisfiedBy(T) bool { return true }
func (trueSpec[T]) SQL(*Args) string     { return "TRUE" }

// True no restringe nada. Los builders la devuelven cuando el filtro viene vacío.
func True[T any]() Spec[T] { return trueSpec[T]{} }

// IsTrue indica si s es la especificación neutra.
func IsTrue[T any](s Spec[T]) bool {
	if s == nil {
		return true
	}
	_, ok := s.(trueSpec[T])
	return ok
}

type predicate[T any] struct {
	match func(T) bool
	sql   func(*Args) string
}

func (p predicate[T]) IsSatisfiedBy(c T) bool { return p.match(c) }
func (p predicate[T]) SQL(a *Args) string     { return p.sql(a) }

// Where construye una especificación hoja a partir de su evaluación en memoria y su forma SQL.
func Where[T any](match func(T) bool, sql func(*Args) string) Spec[T] {
	return predicate[T]{match: match, sql: sql}
}

type andSpec[T any] struct {
	parts []Spec[T]
}

func (s andSpec[T]) IsSatisfiedBy(c T) bool {
	for _, p := range s.parts {
		if !p.IsSatisfiedBy(c) {
			return false
		}
	}
	return true
}

func (s andSpec[T]) SQL(a *Args) string {
	return join(s.parts, " AND ", a)
}

// And exige todas las especificaciones. Ignora las neutras; sin operandos devuelve True.
func And[T any](specs ...Spec[T]) Spec[T] {
	parts := make([]Spec[T], 0, len(specs))
	for _, s := range specs {
		if IsTrue(s) {
			continue
		}
		if inner, ok := s.(andSpec[T]); ok {
			parts = append(parts, inner.parts...)
			continue
		}
		parts = append(parts, s)
	}
	switch len(parts) {
	case 0:
		return True[T]()
	case 1:
		return parts[0]
	}
	return andSpec[T]{parts: parts}
}

type orSpec[T any] struct {
	parts []Spec[T]
}

func (s orSpec[T]) IsSatisfiedBy(c T) bool {
	for _, p := range s.parts {
		if p.IsSatisfiedBy(c) {
			return true
		}
	}
	return false
}

func (s orSpec[T]) SQL(a *Args) string {
	return join(s.parts, " OR ", a)
}

// Or exige al menos una. Un operando neutro hace neutra toda la disyunción.
func Or[T any](specs ...Spec[T]) Spec[T] {
	parts := make([]Spec[T], 0, len(specs))
	for _, s := range specs {
		if s == nil {
			continue
		}
		if IsTrue(s) {
			return True[T]()
		}
		parts = append(parts, s)
	}
	switch len(parts) {
	case 0:
		return True[T]()
	case 1:
		return parts[0]
	}
	return orSpec[T]{parts: parts}
}

type notSpec[T any] struct {
	inner Spec[T]
}

func (s notSpec[T]) IsSatisfiedBy(c T) bool { return !s.inner.IsSatisfiedBy(c) }
func (s notSpec[T]) SQL(a *Args) string     { return "NOT (" + s.inner.SQL(a) + ")" }

// Not niega s.
func Not[T any](s Spec[T]) Spec[T] {
	if s == nil {
		s = True[T]()
	}
	return notSpec[T]{inner: s}
}

func join[T any](parts []Spec[T], sep string, a *Args) string {
	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = p.SQL(a)
	}
	return "(" + strings.Join(rendered, sep) + ")"
}

// Filter aplica spec sobre items conservando el orden.
func Filter[T any](items []T, spec Spec[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if spec.IsSatisfiedBy(it) {
			out = append(out, it)
		}
	}
	return out
}
