package models

import "slices"

// Hobby is an entry of the interest catalog.
type Hobby struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Hobbies is the fixed interest catalog offered at signup.
var Hobbies = []Hobby{
	{ID: "cooking", Label: "Nấu ăn", Icon: "🍳"},
	{ID: "gym", Label: "Tập Gym", Icon: "💪"},
	{ID: "gaming", Label: "Chơi game", Icon: "🎮"},
	{ID: "reading", Label: "Đọc sách", Icon: "📚"},
	{ID: "travel", Label: "Du lịch", Icon: "✈️"},
	{ID: "photography", Label: "Chụp ảnh", Icon: "📸"},
	{ID: "martial_arts", Label: "Võ thuật", Icon: "🥋"},
	{ID: "music", Label: "Âm nhạc", Icon: "🎵"},
	{ID: "coffee", Label: "Cà phê", Icon: "☕"},
	{ID: "sports", Label: "Thể thao", Icon: "🏀"},
	{ID: "running", Label: "Chạy bộ", Icon: "🏃‍♂️"},
	{ID: "movies", Label: "Xem phim", Icon: "🎬"},
	{ID: "pets", Label: "Thú cưng", Icon: "🐶"},
	{ID: "art", Label: "Nghệ thuật", Icon: "🎨"},
	{ID: "hiking", Label: "Leo núi", Icon: "⛰️"},
	{ID: "dancing", Label: "Nhảy múa", Icon: "💃"},
	{ID: "baking", Label: "Làm bánh", Icon: "🧁"},
	{ID: "tech", Label: "Công nghệ", Icon: "💻"},
	{ID: "shopping", Label: "Mua sắm", Icon: "🛍️"},
	{ID: "astrology", Label: "Chiêm tinh", Icon: "✨"},
}

// Provinces lists the locations a profile may declare.
var Provinces = []string{
	"Hà Nội", "TP. Hồ Chí Minh", "Đà Nẵng", "Hải Phòng", "Cần Thơ", "TP. Huế",
	"An Giang", "Bà Rịa - Vũng Tàu", "Bắc Giang", "Bắc Kạn", "Bạc Liêu", "Bắc Ninh",
	"Bến Tre", "Bình Định", "Bình Dương", "Bình Phước", "Bình Thuận", "Cà Mau",
	"Cao Bằng", "Đắk Lắk", "Đắk Nông", "Điện Biên", "Đồng Nai", "Đồng Tháp",
	"Gia Lai", "Hà Giang", "Hà Nam", "Hà Tĩnh", "Hải Dương", "Hậu Giang",
	"Hòa Bình", "Hưng Yên", "Khánh Hòa", "Kiên Giang", "Kon Tum", "Lai Châu",
	"Lâm Đồng", "Lạng Sơn", "Lào Cai", "Long An", "Nam Định", "Nghệ An",
	"Ninh Bình", "Ninh Thuận", "Phú Thọ", "Phú Yên", "Quảng Bình", "Quảng Nam",
	"Quảng Ngãi", "Quảng Ninh", "Quảng Trị", "Sóc Trăng", "Sơn La", "Tây Ninh",
	"Thái Bình", "Thái Nguyên", "Thanh Hóa", "Tiền Giang", "Trà Vinh",
	"Tuyên Quang", "Vĩnh Long", "Vĩnh Phúc", "Yên Bái",
}

// IsHobby reports whether id is in the interest catalog.
func IsHobby(id string) bool {
	return slices.ContainsFunc(Hobbies, func(h Hobby) bool { return h.ID == id })
}

// IsProvince reports whether name is a known province.
func IsProvince(name string) bool {
	return slices.Contains(Provinces, name)
}
