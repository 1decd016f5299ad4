package export

import (
	"bytes"
	"fmt"
	"image/color"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/Freeeeeet/college_scheduler/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	slotLabelsWidth = 80
	titleHeight     = 60
	dayHeaderHeight = 36
	rowHeight       = 64
	tableGap        = 40
	cellPadding     = 6
	cellRadius      = 5.0
)

// Константы шрифтов
const (
	titleFontSize = 24.0
	dayFontSize   = 18.0
	labelFontSize = 15.0
	cellFontSize  = 11.0
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	slotLabelColor = color.RGBA{110, 115, 120, 200}
	gridLineColor  = color.NRGBA{150, 150, 150, 255}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}
	cellColor      = color.RGBA{133, 193, 85, 220}
	cellTextColor  = color.RGBA{20, 24, 28, 230}
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font
)

// setFont выставляет Go Regular нужного размера или basicfont, если шрифт не разобрался
func setFont(dc *gg.Context, size float64) {
	fontOnce.Do(func() {
		parsedFont, _ = opentype.Parse(goregular.TTF)
	})
	if parsedFont != nil {
		face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
			Size:    size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err == nil {
			dc.SetFontFace(face)
			return
		}
	}
	dc.SetFontFace(basicfont.Face7x13)
}

func tableHeight() int {
	return titleHeight + dayHeaderHeight + SlotsPerDay*rowHeight
}

// RenderPNG рисует таблицы друг под другом; пустой список даёт картинку с надписью
func RenderPNG(tables []Timetable) ([]byte, error) {
	count := len(tables)
	if count == 0 {
		count = 1
	}
	height := count*tableHeight() + (count-1)*tableGap

	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()

	if len(tables) == 0 {
		setFont(dc, titleFontSize)
		dc.SetColor(textColor)
		dc.DrawStringAnchored("No scheduled classes", imageWidth/2, float64(height)/2, 0.5, 0.5)
		return encodeImage(dc)
	}

	dayWidth := float64(imageWidth-slotLabelsWidth) / float64(len(model.Days))
	for i, table := range tables {
		top := float64(i * (tableHeight() + tableGap))
		drawTable(dc, table, top, dayWidth)
	}

	return encodeImage(dc)
}

func drawTable(dc *gg.Context, table Timetable, top, dayWidth float64) {
	setFont(dc, titleFontSize)
	dc.SetColor(textColor)
	dc.DrawStringAnchored(table.Class, 10, top+titleHeight/2, 0, 0.5)

	gridTop := top + titleHeight + dayHeaderHeight
	gridHeight := float64(SlotsPerDay * rowHeight)

	for d, day := range model.Days {
		x := slotLabelsWidth + float64(d)*dayWidth
		if d%2 == 0 {
			dc.SetColor(evenDayColor)
		} else {
			dc.SetColor(oddDayColor)
		}
		dc.DrawRectangle(x, gridTop, dayWidth, gridHeight)
		dc.Fill()

		setFont(dc, dayFontSize)
		dc.SetColor(textColor)
		dc.DrawStringAnchored(string(day), x+dayWidth/2, top+titleHeight+dayHeaderHeight/2, 0.5, 0.5)
	}

	dc.SetLineWidth(0.3)
	dc.SetColor(gridLineColor)
	for r := 0; r <= SlotsPerDay; r++ {
		y := gridTop + float64(r*rowHeight)
		dc.DrawLine(slotLabelsWidth, y, imageWidth, y)
		dc.Stroke()
	}

	setFont(dc, labelFontSize)
	dc.SetColor(slotLabelColor)
	for r, label := range table.Slots {
		y := gridTop + float64(r*rowHeight)
		dc.DrawStringAnchored(label, slotLabelsWidth-10, y+rowHeight/2, 1, 0.5)
	}

	for r := range table.Cells {
		for d, cell := range table.Cells[r] {
			if !cell.Occupied() {
				continue
			}
			x := slotLabelsWidth + float64(d)*dayWidth
			y := gridTop + float64(r*rowHeight)
			drawCell(dc, cell, x, y, dayWidth)
		}
	}
}

func drawCell(dc *gg.Context, cell Cell, x, y, width float64) {
	dc.SetColor(cellColor)
	dc.DrawRoundedRectangle(x+2, y+2, width-4, rowHeight-4, cellRadius)
	dc.Fill()

	setFont(dc, cellFontSize)
	dc.SetColor(cellTextColor)
	lineHeight := dc.FontHeight() + 1
	maxWidth := width - 2*cellPadding
	ty := y + cellPadding
	for _, line := range cell.Lines() {
		if ty+lineHeight > y+rowHeight {
			break
		}
		dc.DrawStringAnchored(truncate(dc, line, maxWidth), x+cellPadding, ty, 0, 1)
		ty += lineHeight
	}
}

// truncate обрезает строку под ширину ячейки
func truncate(dc *gg.Context, s string, maxWidth float64) string {
	if w, _ := dc.MeasureString(s); w <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "..."
		if w, _ := dc.MeasureString(candidate); w <= maxWidth {
			return candidate
		}
	}
	return ""
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
