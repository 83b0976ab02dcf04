package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mmeshcher/entradas-client/internal/model"
)

const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 15.0
)

var errUnknownImage = errors.New("unrecognized image data")

// Renderer собирает одностраничный PDF билета фиксированной вёрстки.
type Renderer struct {
	mediaBase  string
	httpClient *http.Client
}

// NewRenderer создаёт рендерер. mediaBase используется для разрешения
// путей /uploads/..., timeout ограничивает скачивание изображений.
func NewRenderer(mediaBase string, timeout time.Duration) *Renderer {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Renderer{
		mediaBase: mediaBase,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// RenderTicket собирает PDF билета и возвращает его содержимое в base64.
// Полные данные события билет не содержит, поэтому событие передаётся
// отдельно. Недоступные или битые изображения заменяются заглушкой,
// из-за изображения отрисовка не завершается ошибкой.
func (r *Renderer) RenderTicket(ctx context.Context, t model.Ticket, ev model.Event) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// верхняя полоса: название приложения и события
	pdf.SetFillColor(33, 37, 41)
	pdf.Rect(0, 0, pageWidth, 32, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(margin, 8)
	pdf.CellFormat(0, 10, "ENTRADAS", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetX(margin)
	pdf.CellFormat(0, 8, tr(ev.Name), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	// средняя полоса: изображение события слева, текст в центре, QR справа
	bandTop := 45.0
	r.drawImage(pdf, r.eventImageBytes(ctx, t, ev), "evento", margin, bandTop, 60, 60)
	r.drawImage(pdf, r.qrBytes(t), "qr", pageWidth-margin-45, bandTop, 45, 45)

	pdf.SetFont("Helvetica", "", 11)
	textX := margin + 68
	lines := []string{
		fmt.Sprintf("Evento: %s", ev.Name),
		fmt.Sprintf("Lugar: %s", ev.Location),
		fmt.Sprintf("Inicio: %s", formatTime(ev.Starts)),
		fmt.Sprintf("Fin: %s", formatTime(ev.Ends)),
		fmt.Sprintf("Comprado: %s", formatTime(t.PurchasedAt)),
		fmt.Sprintf("Precio pagado: %.2f EUR", t.PricePaid),
		fmt.Sprintf("Estado: %s", t.State),
	}
	y := bandTop
	for _, line := range lines {
		pdf.SetXY(textX, y)
		pdf.CellFormat(pageWidth-textX-margin-48, 7, tr(line), "", 0, "L", false, 0, "")
		y += 8
	}

	// нижняя полоса: идентификаторы и юридическая строка
	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(0, pageHeight-28, pageWidth, 28, "F")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(margin, pageHeight-24)
	ids := fmt.Sprintf("Ticket #%d · Usuario #%d · Evento #%d", t.ID, t.UserID, t.EventID)
	pdf.CellFormat(0, 6, tr(ids), "", 1, "L", false, 0, "")
	pdf.SetX(margin)
	pdf.SetFont("Helvetica", "I", 8)
	legal := "Entrada personal e intransferible. Presente este documento con el código QR en el acceso."
	pdf.CellFormat(0, 5, tr(legal), "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return "", fmt.Errorf("render ticket pdf: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// SaveLocal декодирует base64-документ и записывает его в каталог dir.
// Возвращает путь созданного файла.
func (r *Renderer) SaveLocal(dir, encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode pdf: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("ticket-%s.pdf", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}

	return path, nil
}

// eventImageBytes пытается получить изображение события; при неудаче
// возвращает nil, что приводит к отрисовке заглушки.
func (r *Renderer) eventImageBytes(ctx context.Context, t model.Ticket, ev model.Event) []byte {
	src := ev.Image
	if src == "" {
		src = t.EventImage
	}
	data, err := r.resolveImage(ctx, src)
	if err != nil {
		return nil
	}
	return data
}

// qrBytes декодирует QR-изображение из полезной нагрузки билета.
// Если нагрузка не является валидным PNG, QR строится локально
// из самой строки кода.
func (r *Renderer) qrBytes(t model.Ticket) []byte {
	if t.QRCode == "" {
		return nil
	}

	if data, err := decodeInline(t.QRCode); err == nil {
		return data
	}

	data, err := qrcode.Encode(t.QRCode, qrcode.Medium, 256)
	if err != nil {
		return nil
	}
	return data
}

// drawImage регистрирует изображение в документе либо рисует заглушку.
func (r *Renderer) drawImage(pdf *fpdf.Fpdf, data []byte, name string, x, y, w, h float64) {
	imageType := sniffImageType(data)
	if imageType == "" {
		drawPlaceholder(pdf, x, y, w, h)
		return
	}

	opts := fpdf.ImageOptions{ImageType: imageType}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if pdf.Err() {
		// битое изображение не должно ронять весь документ
		pdf.ClearError()
		drawPlaceholder(pdf, x, y, w, h)
		return
	}
	pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// resolveImage получает байты изображения по нормализованному источнику.
func (r *Renderer) resolveImage(ctx context.Context, raw string) ([]byte, error) {
	src := BuildImageURL(r.mediaBase, raw)
	if src == "" {
		return nil, errUnknownImage
	}

	if inlineImage(src) {
		return decodeInline(src)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	return data, nil
}

// decodeInline декодирует встроенное base64-изображение,
// с data-URI-префиксом или без него.
func decodeInline(src string) ([]byte, error) {
	if idx := strings.Index(src, ";base64,"); idx >= 0 {
		src = src[idx+len(";base64,"):]
	}
	src = strings.TrimSpace(src)

	data, err := base64.StdEncoding.DecodeString(src)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(src)
	}
	if err != nil {
		return nil, fmt.Errorf("decode inline image: %w", err)
	}

	if sniffImageType(data) == "" {
		return nil, errUnknownImage
	}
	return data, nil
}

// sniffImageType распознаёт формат изображения по сигнатуре.
func sniffImageType(data []byte) string {
	switch {
	case len(data) > 8 && bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "PNG"
	case len(data) > 3 && bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "JPG"
	case len(data) > 6 && (bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a"))):
		return "GIF"
	default:
		return ""
	}
}

// drawPlaceholder рисует рамку со знаком вопроса вместо изображения.
func drawPlaceholder(pdf *fpdf.Fpdf, x, y, w, h float64) {
	pdf.SetDrawColor(180, 180, 180)
	pdf.Rect(x, y, w, h, "D")
	pdf.SetFont("Helvetica", "B", 28)
	pdf.SetTextColor(180, 180, 180)
	pdf.SetXY(x, y+h/2-7)
	pdf.CellFormat(w, 14, "?", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("02/01/2006 15:04")
}
