package enums

// NotificationChannel is the transport a notification is sent over.
type NotificationChannel string

const (
	NotificationChannelSMS   NotificationChannel = "sms"
	NotificationChannelEmail NotificationChannel = "email"
)

var notificationChannels = set[NotificationChannel]{NotificationChannelSMS, NotificationChannelEmail}

func (c NotificationChannel) String() string { return string(c) }

func (c NotificationChannel) IsValid() bool { return notificationChannels.has(c) }
