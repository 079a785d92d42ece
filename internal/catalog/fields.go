package catalog

// defaultFields mirrors the directory's two-level research area
// classification. Green labels on result rows carry the field name,
// blue labels the specialty name.
var defaultFields = []Field{
	{
		ID:   1,
		Name: "Eğitim Bilimleri Temel Alanı",
		Specialties: []Specialty{
			{ID: "101", Name: "Eğitim Programları ve Öğretim"},
			{ID: "102", Name: "Eğitim Yönetimi"},
			{ID: "103", Name: "Rehberlik ve Psikolojik Danışmanlık"},
			{ID: "104", Name: "Matematik ve Fen Bilimleri Eğitimi"},
		},
	},
	{
		ID:   2,
		Name: "Fen Bilimleri ve Matematik Temel Alanı",
		Specialties: []Specialty{
			{ID: "201", Name: "Matematik"},
			{ID: "202", Name: "Fizik"},
			{ID: "203", Name: "Kimya"},
			{ID: "204", Name: "Biyoloji"},
			{ID: "205", Name: "İstatistik"},
		},
	},
	{
		ID:   3,
		Name: "Filoloji Temel Alanı",
		Specialties: []Specialty{
			{ID: "301", Name: "Dünya Dilleri ve Edebiyatları"},
			{ID: "302", Name: "Eski Çağ Dilleri ve Kültürleri"},
			{ID: "303", Name: "Türk Dili"},
		},
	},
	{
		ID:   4,
		Name: "Hukuk Temel Alanı",
		Specialties: []Specialty{
			{ID: "401", Name: "Kamu Hukuku"},
			{ID: "402", Name: "Özel Hukuk"},
		},
	},
	{
		ID:   5,
		Name: "Mimarlık, Planlama ve Tasarım Temel Alanı",
		Specialties: []Specialty{
			{ID: "501", Name: "Mimarlık"},
			{ID: "502", Name: "Şehir ve Bölge Planlama"},
			{ID: "503", Name: "Endüstriyel Tasarım"},
		},
	},
	{
		ID:   6,
		Name: "Mühendislik Temel Alanı",
		Specialties: []Specialty{
			{ID: "601", Name: "Bilgisayar Bilimleri ve Mühendisliği"},
			{ID: "602", Name: "Elektrik-Elektronik Mühendisliği"},
			{ID: "603", Name: "Makine Mühendisliği"},
			{ID: "604", Name: "İnşaat Mühendisliği"},
			{ID: "605", Name: "Endüstri Mühendisliği"},
			{ID: "606", Name: "Biyomedikal Mühendisliği"},
		},
	},
	{
		ID:   7,
		Name: "Sağlık Bilimleri Temel Alanı",
		Specialties: []Specialty{
			{ID: "701", Name: "İç Hastalıkları"},
			{ID: "702", Name: "Cerrahi Tıp Bilimleri"},
			{ID: "703", Name: "Halk Sağlığı"},
			{ID: "704", Name: "Hemşirelik"},
		},
	},
	{
		ID:   8,
		Name: "Sosyal, Beşeri ve İdari Bilimler Temel Alanı",
		Specialties: []Specialty{
			{ID: "801", Name: "İktisat"},
			{ID: "802", Name: "İşletme"},
			{ID: "803", Name: "Psikoloji"},
			{ID: "804", Name: "Sosyoloji"},
			{ID: "805", Name: "Tarih"},
		},
	},
	{
		ID:   9,
		Name: "Ziraat, Orman ve Su Ürünleri Temel Alanı",
		Specialties: []Specialty{
			{ID: "901", Name: "Bahçe Bitkileri Yetiştirme ve Islahı"},
			{ID: "902", Name: "Orman Mühendisliği"},
			{ID: "903", Name: "Su Ürünleri"},
		},
	},
	{
		ID:   10,
		Name: "İlahiyat Temel Alanı",
		Specialties: []Specialty{
			{ID: "1001", Name: "Temel İslam Bilimleri"},
			{ID: "1002", Name: "Felsefe ve Din Bilimleri"},
		},
	},
	{
		ID:   11,
		Name: "Güzel Sanatlar Temel Alanı",
		Specialties: []Specialty{
			{ID: "1101", Name: "Müzik"},
			{ID: "1102", Name: "Plastik Sanatlar"},
			{ID: "1103", Name: "Sahne Sanatları"},
		},
	},
	{
		ID:   12,
		Name: "Spor Bilimleri Temel Alanı",
		Specialties: []Specialty{
			{ID: "1201", Name: "Antrenman Bilimi"},
			{ID: "1202", Name: "Beden Eğitimi ve Spor Öğretimi"},
		},
	},
}
