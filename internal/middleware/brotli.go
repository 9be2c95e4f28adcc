package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type BrotliConfig struct {
	Quality   int
	Skipper   func(c *gin.Context) bool
	MinLength int
}

var DefaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
	Skipper:   nil,
}

// Formats that are already compressed gain nothing from a second pass.
var incompressibleTypes = []string{
	"application/pdf",
	"application/zip",
	"application/vnd.openxmlformats-officedocument",
	"image/",
}

type brotliWriter struct {
	gin.ResponseWriter
	writer    *brotli.Writer
	quality   int
	buf       []byte
	minLength int

	decided    bool
	compressed bool
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	if bw.decided && !bw.compressed {
		return bw.ResponseWriter.Write(data)
	}
	if bw.compressed {
		return bw.writer.Write(data)
	}

	if !compressible(bw.Header().Get("Content-Type")) {
		bw.decided = true
		if err := bw.flush(); err != nil {
			return 0, err
		}
		return bw.ResponseWriter.Write(data)
	}

	bw.buf = append(bw.buf, data...)
	if len(bw.buf) < bw.minLength {
		return len(data), nil
	}

	bw.decided = true
	bw.compressed = true
	bw.Header().Set("Content-Encoding", "br")
	bw.Header().Del("Content-Length")
	bw.writer = brotli.NewWriterLevel(bw.ResponseWriter, bw.quality)

	pending := bw.buf
	bw.buf = nil
	if _, err := bw.writer.Write(pending); err != nil {
		return 0, err
	}
	return len(data), nil
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.Write([]byte(s))
}

// Flush forwards buffered plain bytes before flushing the underlying writer.
func (bw *brotliWriter) Flush() {
	if bw.compressed {
		_ = bw.writer.Flush()
	} else {
		_ = bw.flush()
	}
	bw.ResponseWriter.Flush()
}

func (bw *brotliWriter) flush() error {
	if len(bw.buf) == 0 {
		return nil
	}
	_, err := bw.ResponseWriter.Write(bw.buf)
	bw.buf = bw.buf[:0]
	return err
}

func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(DefaultBrotliConfig)
}

func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < 0 || cfg.Quality > 11 {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = DefaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if cfg.Skipper != nil && cfg.Skipper(c) {
			c.Next()
			return
		}

		if !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			quality:        cfg.Quality,
			minLength:      cfg.MinLength,
		}

		defer func() {
			if bw.compressed {
				if err := bw.writer.Close(); err != nil {
					_ = c.Error(err)
				}
				return
			}
			if err := bw.flush(); err != nil {
				_ = c.Error(err)
			}
		}()

		c.Writer = bw
		c.Next()
	}
}

// SkipPathSuffix returns a Skipper for requests whose path ends with one of suffixes.
func SkipPathSuffix(suffixes ...string) func(c *gin.Context) bool {
	return func(c *gin.Context) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(c.Request.URL.Path, s) {
				return true
			}
		}
		return false
	}
}

func compressible(contentType string) bool {
	ct := strings.ToLower(contentType)
	for _, t := range incompressibleTypes {
		if strings.HasPrefix(ct, t) {
			return false
		}
	}
	return true
}

func acceptsBrotli(r *http.Request) bool {
	ae := r.Header.Get("Accept-Encoding")
	for _, enc := range strings.Split(ae, ",") {
		enc, _, _ = strings.Cut(enc, ";")
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
