package products

import (
	"bytes"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"git.sr.ht/~aondrejcak/pos-api/kernel"
	"git.sr.ht/~aondrejcak/pos-api/utils"
)

var labelTemplate = template.Must(template.New("label").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ .ProductName }}</title>
<style>
body { font-family: sans-serif; margin: 0; }
.label { width: 58mm; padding: 2mm; text-align: center; }
.name { font-size: 12px; font-weight: bold; }
.price { font-size: 12px; }
.code { font-family: monospace; font-size: 11px; letter-spacing: 2px; }
@media print { .no-print { display: none; } }
</style>
</head>
<body>
<div class="label">
  <div class="name">{{ .ProductName }}</div>
  {{ with .Code }}<svg id="barcode" data-code="{{ . }}"></svg>
  <div class="code">{{ . }}</div>{{ end }}
  <div class="price">MRP {{ printf "%.2f" .Mrp }} | Price {{ printf "%.2f" .SalesPrice }}</div>
  {{ with .Expiry }}<div class="price">EXP {{ . }}</div>{{ end }}
</div>
<button class="no-print" onclick="window.print()">Print</button>
<script src="https://cdn.jsdelivr.net/npm/jsbarcode@3.11.6/dist/JsBarcode.all.min.js"></script>
<script>
var el = document.getElementById("barcode");
if (el && window.JsBarcode) { JsBarcode(el, el.dataset.code, { height: 40, displayValue: false }); }
</script>
</body>
</html>
`))

type label struct {
	ProductName string
	Code        string
	Mrp         float64
	SalesPrice  float64
	Expiry      string
}

// Barcode renders a printable label page for a product. The barcode is the
// product's barcode, falling back to its item code.
func Barcode(c *gin.Context) {
	rt := kernel.FromContext(c)
	rt.NewChildTracer("products.barcode").Advance()

	product, ok := load(rt)
	if !ok {
		return
	}

	l := label{
		ProductName: product.ProductName,
		Mrp:         product.Mrp,
		SalesPrice:  product.SalesPrice,
	}
	switch {
	case product.Barcode != nil:
		l.Code = *product.Barcode
	case product.ItemCode != nil:
		l.Code = *product.ItemCode
	}
	if product.ExpiryDate != nil {
		l.Expiry = time.Time(*product.ExpiryDate).Format(utils.DateLayout)
	}

	var buf bytes.Buffer
	if err := labelTemplate.Execute(&buf, l); err != nil {
		rt.Ef(http.StatusInternalServerError, "could not render label: %v", err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	rt.EndBlock()
}
