package model

type Giftee struct {
	RequesterName  string
	GifteeName     string
	GifteeWishlist string
	Budget         string
}
