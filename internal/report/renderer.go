package report

// Renderer turns a Document into the bytes of one downloadable file.
type Renderer interface {
	Format() Format
	Render(doc *Document) ([]byte, error)
}
