package chat

import "context"

// Provisioner: bikin/hapus private channel (ticket) di platform chat.
type Provisioner interface {
	// CreatePrivateChannel bikin channel yang cuma bisa dilihat buyer + staff.
	CreatePrivateChannel(ctx context.Context, buyerID string) (channelID string, err error)
	DeleteChannel(ctx context.Context, channelID string) error
}

// Notifier: kirim pesan. Gagal kirim bukan urusan state machine.
type Notifier interface {
	SendToUser(ctx context.Context, userID, content string) error
	SendToChannel(ctx context.Context, channelID, content string) error
}
