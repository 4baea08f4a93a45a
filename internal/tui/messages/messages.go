package messages

import "picsort/internal/watch"

// BannerExpiredMsg clears the success banner with the same sequence number.
type BannerExpiredMsg struct {
	Seq int
}

// ExternalChangeMsg carries a change seen in the source folder.
type ExternalChangeMsg struct {
	Change watch.Change
}

// WatcherClosedMsg is sent once the watcher's channel is closed.
type WatcherClosedMsg struct{}
