// Package render собирает PDF-документ билета с изображением события
// и QR-кодом. Источники изображений описываются строками трёх видов:
// абсолютный URL, путь /uploads/... относительно медиа-сервера
// и встроенный base64.
package render

import "strings"

// BuildImageURL нормализует строку источника изображения.
//
// Абсолютные http(s)-адреса проходят без изменений, поэтому функция
// идемпотентна. Пути с префиксом /uploads/ присоединяются к базовому
// адресу медиа. Всё остальное считается встроенным base64 и возвращается
// как есть — его декодирует этап загрузки изображения.
func BuildImageURL(mediaBase, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}

	if strings.HasPrefix(raw, "/uploads/") {
		return strings.TrimRight(mediaBase, "/") + raw
	}

	return raw
}

// inlineImage сообщает, описывает ли нормализованная строка встроенные данные,
// а не адрес для скачивания.
func inlineImage(src string) bool {
	return !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://")
}
