package devtools

import (
	"fmt"
	"html"
	"io"
	"os"
	"strings"
	"time"

	"mapcurator/pkg/engine/world"
)

// tileClass returns the icon and CSS class for a tile kind
func tileClass(t world.TileType) (icon, class string) {
	switch t {
	case world.Wall:
		return "▒", "wall"
	case world.Open:
		return "·", "floor"
	case world.Start:
		return "S", "start"
	case world.Finish:
		return "F", "finish"
	default:
		return " ", "void"
	}
}

// WriteHTML renders the grid as a standalone HTML page
func WriteHTML(out io.Writer, title string, grid *world.Grid) error {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>` + html.EscapeString(title) + `</title>
    <style>
        body {
            background-color: #1a1a2e;
            color: #eee;
            font-family: 'Courier New', monospace;
            padding: 20px;
        }
        .header {
            color: #bb86fc;
            font-size: 18px;
            margin-bottom: 10px;
        }
        .map-container {
            background-color: #0f0f1a;
            padding: 20px;
            border-radius: 8px;
            display: inline-block;
            margin: 20px 0;
        }
        .map-row {
            white-space: pre;
            line-height: 1.0;
            font-size: 12px;
        }
        .wall { color: #666; }
        .floor { color: #aaa; }
        .start { color: #00ff00; font-weight: bold; }
        .finish { color: #ff4444; font-weight: bold; }
        .void { color: #1a1a2e; }
    </style>
</head>
<body>
`)

	b.WriteString(fmt.Sprintf(`    <div class="header">%s</div>`+"\n", html.EscapeString(title)))
	b.WriteString(`    <div class="map-container">` + "\n")
	for y := 0; y < grid.Height(); y++ {
		b.WriteString(`        <div class="map-row">`)
		for x := 0; x < grid.Width(); x++ {
			icon, class := tileClass(grid.Tile(x, y))
			b.WriteString(fmt.Sprintf(`<span class="%s">%s</span>`, class, icon))
		}
		b.WriteString("</div>\n")
	}
	b.WriteString(`    </div>` + "\n")
	b.WriteString("</body>\n</html>\n")

	_, err := io.WriteString(out, b.String())
	return err
}

// SaveScreenshotHTML writes the grid to a timestamped HTML file in the
// working directory and returns the file name
func SaveScreenshotHTML(title string, grid *world.Grid) (string, error) {
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("screenshot-%s.html", timestamp)

	f, err := os.Create(filename)
	if err != nil {
		return "", err
	}
	if err := WriteHTML(f, title, grid); err != nil {
		f.Close()
		return "", err
	}
	return filename, f.Close()
}
