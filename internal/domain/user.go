package domain

import "strconv"

type UserID int64

func (id UserID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ChannelID identifies the broadcast chat. Telegram group and channel ids are negative.
type ChannelID int64

func (id ChannelID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
