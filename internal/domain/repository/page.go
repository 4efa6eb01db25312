package repository

// Page ventana de resultados (limit/offset).
type Page struct {
	Limit  int
	Offset int
}

// Normalize aplica los valores por defecto: limit 20, máximo 100, offset no negativo.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Window recorta items (ya ordenados) a la página.
func Window[T any](items []T, p Page) []T {
	if p.Offset >= len(items) {
		return []T{}
	}
	end := p.Offset + p.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[p.Offset:end]
}
