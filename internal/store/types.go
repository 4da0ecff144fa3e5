package store

// User is a registered account. PasswordHash is a bcrypt hash and is
// never serialized into responses.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// ArtRef points at the stored jacket image plus the artist credited
// for it.
type ArtRef struct {
	ImageKey string `json:"image_key"`
	Artist   string `json:"artist"`
}

// DifficultyChart describes one difficulty slot of a song. All fields
// are optional: a slot missing from the descriptor has none of them,
// and a slot described without an attached chart file has no ChartKey.
type DifficultyChart struct {
	Difficulty *string `json:"difficulty"`
	ChartKey   *string `json:"chart_key"`
	Charter    *string `json:"charter"`
}

// Attached reports whether this slot carries chart content.
func (d DifficultyChart) Attached() bool {
	return d.ChartKey != nil
}

// Song is the composite record committed by the ingestion pipeline.
// Songs are immutable after creation; there is no partial update.
type Song struct {
	ID         int64           `json:"id"`
	Title      string          `json:"title"`
	Author     string          `json:"author"`
	AudioKey   string          `json:"audio_key"`
	Art        ArtRef          `json:"art"`
	Easy       DifficultyChart `json:"easy"`
	Normal     DifficultyChart `json:"normal"`
	Hard       DifficultyChart `json:"hard"`
	UploaderID int64           `json:"uploader_id"`
}
