package models

// DefaultLetters is the sample collection shown on first run or when the
// stored letters cannot be read.
func DefaultLetters() []Letter {
	return []Letter{
		{
			ID:             "seed00001",
			Number:         "001/UND/DISDIK/I/2024",
			Title:          "Undangan Rapat Koordinasi Kurikulum",
			Sender:         "Dinas Pendidikan Kabupaten",
			Receiver:       "Kepala Sekolah",
			Date:           "2024-01-05",
			Category:       "Undangan",
			Type:           LetterIncoming,
			Description:    "Rapat koordinasi awal semester",
			Content:        "Dengan hormat, kami mengundang Bapak/Ibu untuk menghadiri rapat koordinasi kurikulum.",
			Tags:           []string{"undangan", "umum"},
			EducationLevel: DefaultEducationLevel,
		},
		{
			ID:             "seed00002",
			Number:         "045/SK/SMP/II/2024",
			Title:          "Pemberitahuan Libur Semester",
			Sender:         "Kepala Sekolah",
			Receiver:       "Orang Tua Siswa",
			Date:           "2024-02-12",
			Category:       "Pemberitahuan",
			Type:           LetterOutgoing,
			Description:    "Jadwal libur semester genap",
			Content:        "Diberitahukan bahwa kegiatan belajar mengajar diliburkan selama satu minggu.",
			Tags:           []string{"pemberitahuan", "smp"},
			EducationLevel: "SMP",
		},
	}
}
