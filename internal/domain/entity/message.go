package entity

import "time"

type Message struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Timestamp time.Time `gorm:"autoCreateTime" json:"timestamp"`
	IsUrgent  bool      `gorm:"not null;default:false" json:"is_urgent"`

	SenderID uint `gorm:"not null;index" json:"sender_id"`
	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}

// CanDelete reports whether u may delete this message. The sender always may;
// pharmacists may delete any message.
func (m *Message) CanDelete(u *User) bool {
	if u == nil {
		return false
	}
	return u.ID == m.SenderID || u.Role == RolePharmacist
}
