package ai

import "strings"

const summaryPrompt = "Ringkaslah isi surat berikut ini menjadi satu kalimat yang padat dan informatif dalam Bahasa Indonesia: \n\n "

const textExtractionPrompt = `Ekstrak informasi penting dari teks surat berikut dalam format JSON. Field yang dibutuhkan:
- number (nomor surat)
- sender (pengirim)
- receiver (penerima)
- title (perihal/judul singkat)
- category (pilih satu: %s)

Teks surat:
`

const imageExtractionPrompt = `Anda adalah asisten kearsipan digital. Analisis gambar atau dokumen surat ini dan ekstrak informasi berikut dalam format JSON:
- number: nomor surat resmi (kosongkan jika tidak ada)
- title: perihal atau judul surat yang ringkas
- sender: nama instansi atau orang pengirim
- receiver: nama instansi atau orang penerima
- date: tanggal surat dalam format YYYY-MM-DD
- category: pilih satu yang paling cocok (%s)
- content: transkrip lengkap teks dalam surat

Berikan hasil hanya dalam format JSON yang valid.`

func categoryChoices(categories []string) string {
	return strings.Join(categories, ", ")
}

func stringProps(names ...string) map[string]any {
	props := make(map[string]any, len(names))
	for _, n := range names {
		props[n] = map[string]any{"type": "string"}
	}
	return props
}

var textSchema = map[string]any{
	"type":       "object",
	"properties": stringProps("number", "sender", "receiver", "title", "category"),
	"required":   []string{"number", "sender", "receiver", "title", "category"},
}

var imageSchema = map[string]any{
	"type":       "object",
	"properties": stringProps("number", "title", "sender", "receiver", "date", "category", "content"),
}
