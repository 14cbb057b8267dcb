package content

const (
	// FallbackHeroBackground は hero 写真が 0 件のときに使う静的背景。
	FallbackHeroBackground = "assets/img/fallback-hero.jpg"
	// FallbackLogo はブランディング未設定時のロゴ。
	FallbackLogo = "assets/img/logo-placeholder.svg"

	cloudinaryDemo = "https://res.cloudinary.com/demo/image/upload/v1690000000/"
)

// DefaultImage is the single image used when a gallery normalises to nothing.
func DefaultImage() Image {
	return Image{URL: cloudinaryDemo + "solar-panels.jpg"}
}

// Defaults はリモートストアが使えない場合に表示する組み込みコンテンツを返す。
// 呼び出しごとに新しい値を返すため、呼び出し側で変更しても共有状態は汚れない。
func Defaults() Content {
	return Content{
		Company: Company{
			Name:     "NASAM HI-TECH ELECTRICALS",
			Tagline:  "Electrical Contractor",
			Intro:    "NASAM HI-TECH ELECTRICALS designs and delivers dependable electrical and solar infrastructure that keeps homes and businesses running, no matter the demands placed on them.",
			Email:    "info@nasam.co.ke",
			WhatsApp: "+254722319292",
			Phones:   []string{"+254 722 52 17 52", "+254 722 31 92 92"},
			Locations: []string{
				"Samnima House, Nairobi, Kenya",
				"Marua A Building, Opp. Samrat Supermarket, Nyeri",
			},
			Social: Social{
				Facebook:  "https://facebook.com",
				Instagram: "https://www.instagram.com",
				LinkedIn:  "https://www.linkedin.com",
				X:         "https://twitter.com",
			},
		},
		Branding: Branding{
			LogoLight: FallbackLogo,
			LogoDark:  FallbackLogo,
			Favicon:   FallbackLogo,
			OGImage:   cloudinaryDemo + "solar-panels.jpg",
		},
		Hero: Hero{
			Badge:            "Quality • Innovation • Customer Satisfaction",
			Title:            "Electrical Engineering",
			Accent:           "& Solar Power",
			Lead:             "Safe, reliable, and efficient systems for homes, businesses, and industry. Delivered by certified professionals with strict adherence to IEE standards.",
			PrimaryCtaText:   "Our Services",
			PrimaryCtaURL:    "#services",
			SecondaryCtaText: "Request a Quote",
			SecondaryCtaURL:  "#contact",
		},
		HeroPhotos: []HeroPhoto{
			{
				URL:     cloudinaryDemo + "solar-panels.jpg",
				Alt:     "Solar installation",
				Title:   "Commercial rooftop solar",
				Caption: "50kW hybrid solar array in Nairobi",
				Order:   1,
			},
			{
				URL:     cloudinaryDemo + "electrical-room.jpg",
				Alt:     "Electrical control room",
				Title:   "Industrial MCC upgrade",
				Caption: "Turnkey electrical installation for manufacturing plant",
				Order:   2,
			},
		},
		Categories: []Category{
			{
				ID:          "solar",
				Name:        "Solar PV Systems",
				Slug:        "solar-pv-systems",
				Description: "Design, installation, and maintenance of hybrid and grid-tied solar plants.",
				Images:      []Image{{URL: cloudinaryDemo + "solar-panels.jpg"}},
			},
			{
				ID:          "electrical",
				Name:        "Electrical Installations",
				Slug:        "electrical-installations",
				Description: "Turnkey electrical contracting for commercial, industrial, and residential projects.",
				Images:      []Image{{URL: cloudinaryDemo + "electrical-room.jpg"}},
			},
			{
				ID:          "security",
				Name:        "Security & Surveillance",
				Slug:        "security-surveillance",
				Description: "Integrated CCTV, access control, and smart monitoring solutions.",
				Images:      []Image{{URL: cloudinaryDemo + "security-cameras.jpg"}},
			},
		},
		Projects: []Project{
			{
				Title:       "Hospital Solar Upgrade",
				Description: "Hybrid solar + generator integration providing uninterrupted power to critical wards.",
				Image:       &Image{URL: cloudinaryDemo + "hospital-solar.jpg"},
				Order:       1,
			},
			{
				Title:       "Commercial Reticulation",
				Description: "Energy-efficient electrical upgrade for a multi-storey office complex in Nairobi.",
				Image:       &Image{URL: cloudinaryDemo + "commercial-electric.jpg"},
				Order:       2,
			},
			{
				Title:       "National CCTV Network",
				Description: "Smart surveillance and access control for a nationwide retail chain.",
				Image:       &Image{URL: cloudinaryDemo + "security-monitoring.jpg"},
				Order:       3,
			},
		},
		Reviews: []Review{
			{
				Name:     "Faith K.",
				Category: "Commercial Client",
				Comment:  "Professional team and flawless execution on our energy upgrade.",
				Rating:   float64Ptr(5),
				Approved: boolPtr(true),
			},
			{
				Name:     "James N.",
				Category: "Industrial Client",
				Comment:  "Responsive support and reliable workmanship from start to finish.",
				Rating:   float64Ptr(5),
				Approved: boolPtr(true),
			},
		},
	}
}

func float64Ptr(v float64) *float64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
