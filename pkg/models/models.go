package models

// DTOs for the Jikan metadata API (https://api.jikan.moe/v4), shared by the
// metadata client and the snapshot tool. Only the fields we actually read.

type Images struct {
	JPG struct {
		ImageURL      string `json:"image_url"`
		LargeImageURL string `json:"large_image_url"`
	} `json:"jpg"`
}

type Genre struct {
	Name string `json:"name"`
}

// Anime is one entry from /anime or /top/anime.
type Anime struct {
	MalID        int      `json:"mal_id"`
	Title        string   `json:"title"`
	TitleEnglish string   `json:"title_english"`
	Synopsis     string   `json:"synopsis"`
	Episodes     *int     `json:"episodes"`
	Status       string   `json:"status"`
	Score        *float64 `json:"score"`
	Images       Images   `json:"images"`
	Genres       []Genre  `json:"genres"`
}

// Manga is one entry from /manga or /top/manga.
type Manga struct {
	MalID        int      `json:"mal_id"`
	Title        string   `json:"title"`
	TitleEnglish string   `json:"title_english"`
	Synopsis     string   `json:"synopsis"`
	Chapters     *int     `json:"chapters"`
	Volumes      *int     `json:"volumes"`
	Status       string   `json:"status"`
	Score        *float64 `json:"score"`
	Images       Images   `json:"images"`
	Genres       []Genre  `json:"genres"`
}

// DisplayTitle prefers the English title when the API has one.
func (a Anime) DisplayTitle() string {
	if a.TitleEnglish != "" {
		return a.TitleEnglish
	}
	return a.Title
}

func (m Manga) DisplayTitle() string {
	if m.TitleEnglish != "" {
		return m.TitleEnglish
	}
	return m.Title
}
