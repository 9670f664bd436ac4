package content

import "github.com/ayusman/brochure/internal/store"

// Theme colors.
const (
	Gold = "#E5C89B"
	Pink = "#E6A6B0"
	Blue = "#A8D0D8"
)

// Watermark art kinds.
const (
	ArtNone      = "none"
	ArtMandala   = "mandala"
	ArtWheat     = "wheat"
	ArtMountains = "mountains"
	ArtBowl      = "bowl"
	ArtCompass   = "compass"
)

// Catalog returns the built-in ten page brochure used to seed an empty store.
// Body lines reference pools with {{name}}; each reference draws one entry.
func Catalog() []*store.Topic {
	haryanaPlaces := store.Pool{Entries: []string{
		"Sultanpur Bird Sanctuary", "Kurukshetra", "Pinjore Gardens", "Morni Hills",
	}}
	manipurPlaces := store.Pool{Entries: []string{
		"Loktak Lake", "Keibul Lamjao National Park", "Kangla Fort", "Imphal War Cemetery",
	}}

	return []*store.Topic{
		{
			PageIndex: 0,
			Title:     "INCREDIBLE INDIA",
			Subtitle:  "{{subtitle}}",
			Kind:      store.KindCover,
			Theme:     Gold,
			Art:       ArtMandala,
			Body: []string{
				"Welcome to a journey through the heart of **India's diversity**.",
				"Explore the contrast between the green fields of **Haryana** and the hills of **Manipur**.",
			},
			Pools: map[string]store.Pool{
				"subtitle": {Entries: []string{"A Journey Begins", "Discover Heritage", "North & East"}},
			},
		},
		{
			PageIndex: 1,
			Title:     "HARYANA",
			Subtitle:  "The Green Land",
			Kind:      store.KindStandard,
			Theme:     Gold,
			Art:       ArtWheat,
			Body: []string{
				"Located in North India, **Haryana** is known for its vibrant culture and rapidly growing cities like **Gurugram**.",
				"{{fact}}",
				"The state balances modernity with **deep-rooted traditions**.",
			},
			Pools: map[string]store.Pool{
				"fact": {Entries: []string{
					"Known as the '**Abode of God**'.",
					"A major hub for **automobile manufacturing**.",
					"Rich in **agricultural heritage**.",
					"Home to the historic battle of **Panipat**.",
				}},
			},
		},
		{
			PageIndex: 2,
			Title:     "CULINARY DELIGHTS",
			Subtitle:  "Taste of Haryana",
			Kind:      store.KindStandard,
			Theme:     Gold,
			Art:       ArtBowl,
			Body: []string{
				"Try the {{food}}",
				"Don't miss {{food}}",
				"Food here is simple, earthy, and rich in **dairy**.",
			},
			Pools: map[string]store.Pool{
				"food": {Distinct: true, Entries: []string{
					"**Bajra Khichdi**, A wholesome millet porridge.",
					"**Churma**, Ghee-laden sweet delicacy.",
					"**Kachri ki Sabzi**, Tangy wild cucumber curry.",
					"**Lassi**, Tall glass of buttermilk.",
				}},
			},
		},
		{
			PageIndex: 3,
			Title:     "DESTINATIONS",
			Subtitle:  "Explore Haryana",
			Kind:      store.KindList,
			Theme:     Gold,
			Art:       ArtCompass,
			Body: []string{
				"1. **{{place}}**",
				"2. **{{place}}**",
				"3. **{{place}}**",
				"Each place tells a story of the past.",
			},
			Pools: map[string]store.Pool{"place": haryanaPlaces},
		},
		{
			PageIndex: 4,
			Title:     "CULTURE",
			Subtitle:  "Folk & Traditions",
			Kind:      store.KindStandard,
			Theme:     Gold,
			Art:       ArtMandala,
			Body: []string{
				"Haryana has a rich tradition of **folk music and dance**.",
				"{{tradition}}",
				"Festivals like **Teej** are celebrated with great pomp.",
			},
			Pools: map[string]store.Pool{
				"tradition": {Entries: []string{
					"**Phag Dance** is popular here.",
					"**Saang theatre** is a vital art form.",
					"The **Haryanvi turban** represents pride.",
				}},
			},
		},
		{
			PageIndex: 5,
			Title:     "MANIPUR",
			Subtitle:  "Jewel of India",
			Kind:      store.KindStandard,
			Theme:     Blue,
			Art:       ArtMountains,
			Body: []string{
				"Nestled in the Northeast, **Manipur** is defined by its hills and oval valley.",
				"{{fact}}",
				"It is a land of **exquisite art** and martial prowess.",
			},
			Pools: map[string]store.Pool{
				"fact": {Entries: []string{
					"Famous for its **classical dance** form.",
					"Birthplace of modern **Polo** (Sagol Kangjei).",
					"Known as the '**Jewel of India**'.",
					"Home to the floating **Loktak Lake**.",
				}},
			},
		},
		{
			PageIndex: 6,
			Title:     "EXQUISITE FLAVORS",
			Subtitle:  "Manipuri Cuisine",
			Kind:      store.KindStandard,
			Theme:     Blue,
			Art:       ArtBowl,
			Body: []string{
				"Savor the {{food}}",
				"Enjoy {{food}}",
				"Herbs and **organic ingredients** define this cuisine.",
			},
			Pools: map[string]store.Pool{
				"food": {Distinct: true, Entries: []string{
					"**Eromba**, A mash of boiled vegetables and fermented fish.",
					"**Kangshoi**, Vegetable stew.",
					"**Chak-Hao Kheer**, Purple rice pudding.",
					"**Singju**, Spicy vegetable salad.",
				}},
			},
		},
		{
			PageIndex: 7,
			Title:     "MUST VISIT",
			Subtitle:  "Sights of Manipur",
			Kind:      store.KindList,
			Theme:     Blue,
			Art:       ArtMountains,
			Body: []string{
				"1. **{{place}}**",
				"2. **{{place}}**",
				"3. **{{place}}**",
				"Nature here is **pristine** and untouched.",
			},
			Pools: map[string]store.Pool{"place": manipurPlaces},
		},
		{
			PageIndex: 8,
			Title:     "LIVING HERITAGE",
			Subtitle:  "Art & Dance",
			Kind:      store.KindStandard,
			Theme:     Blue,
			Art:       ArtMandala,
			Body: []string{
				"Manipuri Dance (**Ras Lila**) is world-renowned for its grace.",
				"{{tradition}}",
				"The culture is deeply connected to **nature**.",
			},
			Pools: map[string]store.Pool{
				"tradition": {Entries: []string{
					"**Thang-Ta** is a traditional martial art.",
					"**Lai Haraoba** is a key festival.",
					"**Handloom weaving** is a major craft.",
				}},
			},
		},
		{
			PageIndex: 9,
			Title:     "THANK YOU",
			Subtitle:  "Safe Travels",
			Kind:      store.KindCover,
			Theme:     Pink,
			Art:       ArtMandala,
			Body: []string{
				"We hope this journey inspired you.",
				"Come, visit **Incredible India**.",
			},
		},
	}
}
