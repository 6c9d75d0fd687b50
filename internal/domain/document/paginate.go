package document

// Block grupo de elementos que se coloca entero en una página. Las coordenadas Y de
// sus elementos son relativas al borde superior del bloque; X es absoluta.
type Block struct {
	Name     string
	Height   float64
	Elements []Element
	// AnchorBottom coloca el bloque pegado al margen inferior de la página en curso
	// (o de una nueva si ya no cabe debajo del cursor).
	AnchorBottom bool
	// KeepWithNext obliga a que el bloque y el siguiente queden en la misma página.
	KeepWithNext bool
}

// Paginate reparte los bloques en páginas con aritmética de cursor.
//
// Antes de colocar cada bloque, si cursor+alto supera Height−MarginBottom se abre
// página nueva y el cursor vuelve a MarginTop. Con KeepWithNext la comprobación usa el
// alto de toda la cadena de bloques encadenados. Un bloque nunca se parte; uno más alto
// que el área útil se coloca al inicio de su propia página y desborda.
func Paginate(blocks []Block, g Geometry) []Page {
	pages := []Page{{Number: 1}}
	cursor := g.MarginTop
	limit := g.Bottom()

	newPage := func() {
		pages = append(pages, Page{Number: len(pages) + 1})
		cursor = g.MarginTop
	}
	place := func(b Block, top float64) {
		cur := &pages[len(pages)-1]
		for _, e := range b.Elements {
			e.Y += top
			cur.Elements = append(cur.Elements, e)
		}
	}

	for i, b := range blocks {
		if b.AnchorBottom {
			top := limit - b.Height
			if cursor > top {
				newPage()
			}
			place(b, top)
			cursor = limit
			continue
		}
		if cursor+chainHeight(blocks, i) > limit && cursor > g.MarginTop {
			newPage()
		}
		place(b, cursor)
		cursor += b.Height
	}
	return pages
}

// chainHeight alto del bloque i más los que lo siguen mientras KeepWithNext siga activo.
func chainHeight(blocks []Block, i int) float64 {
	h := blocks[i].Height
	for blocks[i].KeepWithNext && i+1 < len(blocks) && !blocks[i+1].AnchorBottom {
		i++
		h += blocks[i].Height
	}
	return h
}
