// Package seed builds the generated demo dataset the store is loaded with
// on every launch. The shape mirrors a plausible messaging account: a pool
// of saved contacts, one unsaved party known only by phone number, direct
// and group and channel chats with mixed message kinds, stories, and call
// history.
package seed

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/wooqoo/qoo/internal/entity"
)

const (
	userCount       = 14
	directChatCount = 6
	// UnsavedUserID is the seeded party that exercises the save-contact
	// banner flow.
	UnsavedUserID = "u-unsaved"
)

var voiceNotes = []entity.VoiceNote{
	{Duration: 15 * time.Second, Transcript: "Hey, I'll be there in 10 minutes!"},
	{Duration: 8 * time.Second, Transcript: "Can you pick up some milk on your way home?"},
	{Duration: 22 * time.Second, Transcript: "I just saw the funniest thing at the store, let me tell you about it..."},
	{Duration: 5 * time.Second, Transcript: "Thanks!"},
}

// VoiceNotes returns the canned voice note pool. The composer draws from
// the same pool so recorded notes look like the seeded ones.
func VoiceNotes() []entity.VoiceNote {
	out := make([]entity.VoiceNote, len(voiceNotes))
	copy(out, voiceNotes)
	return out
}

// Generate builds the dataset. The same seed yields the same dataset;
// pass 0 to randomize.
func Generate(seed uint64, operatorName string) ([]entity.User, []entity.Chat) {
	f := gofakeit.New(seed)

	users := make([]entity.User, 0, userCount+2)
	for i := 0; i < userCount; i++ {
		users = append(users, randomUser(f))
	}

	unsavedPhone := f.PhoneFormatted()
	users = append(users, entity.User{
		ID:        UnsavedUserID,
		Name:      unsavedPhone, // display name is the raw number until saved
		Username:  "new_friend_" + fmt.Sprint(f.Number(10, 99)),
		AvatarURL: avatarURL(UnsavedUserID),
		Online:    true,
		Phone:     unsavedPhone,
	})

	users = append(users, entity.User{
		ID:        entity.OperatorID,
		Name:      operatorName,
		Username:  "you",
		AvatarURL: avatarURL(entity.OperatorID),
		Online:    true,
		Saved:     true,
	})

	var chats []entity.Chat
	for i := 0; i < directChatCount; i++ {
		chats = append(chats, directChat(f, users[i]))
	}
	chats = append(chats, directChat(f, users[userCount])) // the unsaved party
	chats = append(chats, groupChat(f, users[:5]))
	chats = append(chats, channelChat(f, users[5:9]))

	return users, chats
}

func randomUser(f *gofakeit.Faker) entity.User {
	id := f.UUID()
	stories := randomStories(f)
	return entity.User{
		ID:               id,
		Name:             f.Name(),
		Username:         f.Username(),
		Bio:              f.Sentence(6),
		AvatarURL:        avatarURL(id),
		Online:           f.Float32() < 0.7,
		Phone:            f.PhoneFormatted(),
		Saved:            true,
		Stories:          stories,
		HasUnreadStories: len(stories) > 0,
	}
}

func randomStories(f *gofakeit.Faker) []entity.Story {
	if f.Float32() < 0.6 {
		return nil
	}
	n := f.Number(1, 4)
	stories := make([]entity.Story, n)
	for i := range stories {
		stories[i] = entity.Story{
			ID:        f.UUID(),
			MediaURL:  fmt.Sprintf("https://picsum.photos/seed/%s/540/960", f.UUID()),
			Timestamp: time.Now().Add(-time.Duration(f.Number(1, 20)) * time.Hour),
			Duration:  5 * time.Second,
		}
	}
	return stories
}

func directChat(f *gofakeit.Faker, party entity.User) entity.Chat {
	return entity.Chat{
		ID:           "d-" + party.ID,
		Kind:         entity.ChatDirect,
		Participants: []entity.User{party},
		Messages:     randomMessages(f, []string{party.ID}),
		UnreadCount:  f.Number(0, 3),
		Muted:        f.Float32() < 0.15,
		Pinned:       f.Float32() < 0.15,
	}
}

func groupChat(f *gofakeit.Faker, members []entity.User) entity.Chat {
	ids := make([]string, len(members))
	parts := make([]entity.User, len(members))
	for i, m := range members {
		ids[i] = m.ID
		parts[i] = m.Clone()
	}
	return entity.Chat{
		ID:           "g-" + f.UUID(),
		Kind:         entity.ChatGroup,
		Name:         f.RandomString([]string{"Weekend Plans", "Family", "Climbing Crew", "Study Group"}),
		AvatarURL:    avatarURL(f.UUID()),
		Participants: parts,
		Messages:     randomMessages(f, ids),
		UnreadCount:  f.Number(0, 8),
	}
}

func channelChat(f *gofakeit.Faker, members []entity.User) entity.Chat {
	ids := make([]string, len(members))
	parts := make([]entity.User, len(members))
	for i, m := range members {
		ids[i] = m.ID
		parts[i] = m.Clone()
	}
	return entity.Chat{
		ID:           "ch-" + f.UUID(),
		Kind:         entity.ChatChannel,
		Name:         f.RandomString([]string{"Daily Digest", "City Events", "Tech News"}),
		Description:  f.Sentence(8),
		AvatarURL:    avatarURL(f.UUID()),
		Public:       true,
		MemberCount:  f.Number(1200, 48000),
		Participants: parts,
		Messages:     randomMessages(f, ids),
		UnreadCount:  f.Number(0, 20),
	}
}

func randomMessages(f *gofakeit.Faker, senderIDs []string) []entity.Message {
	n := f.Number(8, 18)
	ts := time.Now().Add(-time.Duration(f.Number(24, 96)) * time.Hour)
	msgs := make([]entity.Message, 0, n)
	for i := 0; i < n; i++ {
		ts = ts.Add(time.Duration(f.Number(1, 3600)) * time.Second)
		senders := append([]string{entity.OperatorID}, senderIDs...)
		sender := senders[f.Number(0, len(senders)-1)]

		m := entity.Message{
			ID:        f.UUID(),
			SenderID:  sender,
			Timestamp: ts,
			Status:    randomStatus(f, sender),
			Pinned:    f.Float32() < 0.05,
		}

		switch roll := f.Float32(); {
		case roll < 0.55:
			m.Kind = entity.KindText
			m.Text = f.Sentence(f.Number(3, 12))
		case roll < 0.70:
			m.Kind = entity.KindImage
			m.ImageURL = fmt.Sprintf("https://picsum.photos/seed/%s/400/300", f.UUID())
			if f.Float32() < 0.3 {
				m.Text = f.Sentence(5)
			}
		case roll < 0.80:
			m.Kind = entity.KindVoice
			note := voiceNotes[f.Number(0, len(voiceNotes)-1)]
			note.AudioURL = fmt.Sprintf("https://cdn.qoo.example/%s.ogg", f.UUID())
			m.Voice = &note
		case roll < 0.90:
			m.Kind = entity.KindPoll
			m.Poll = randomPoll(f, senderIDs)
		default:
			m.Kind = entity.KindCall
			m.Call = randomCall(f, sender)
		}
		msgs = append(msgs, m)
	}
	return msgs
}

func randomPoll(f *gofakeit.Faker, voterPool []string) *entity.Poll {
	p := &entity.Poll{
		Question:      f.Question(),
		AllowMultiple: f.Float32() < 0.3,
	}
	for i, n := 0, f.Number(2, 4); i < n; i++ {
		opt := entity.PollOption{ID: f.UUID(), Text: f.Sentence(2)}
		for _, v := range voterPool {
			if f.Float32() < 0.4 {
				opt.Voters = append(opt.Voters, v)
			}
		}
		p.Options = append(p.Options, opt)
	}
	return p
}

func randomCall(f *gofakeit.Faker, sender string) *entity.CallInfo {
	c := &entity.CallInfo{Medium: entity.CallAudio}
	if f.Float32() < 0.4 {
		c.Medium = entity.CallVideo
	}
	switch {
	case sender == entity.OperatorID:
		c.Direction = entity.CallOutgoing
	case f.Float32() < 0.4:
		c.Direction = entity.CallMissed
	default:
		c.Direction = entity.CallIncoming
	}
	if c.Direction != entity.CallMissed {
		c.Duration = time.Duration(f.Number(10, 1800)) * time.Second
	}
	return c
}

func randomStatus(f *gofakeit.Faker, sender string) entity.MessageStatus {
	if sender != entity.OperatorID {
		return entity.StatusRead
	}
	switch f.Number(0, 2) {
	case 0:
		return entity.StatusSent
	case 1:
		return entity.StatusDelivered
	default:
		return entity.StatusRead
	}
}

func avatarURL(id string) string {
	return "https://i.pravatar.cc/150?u=" + id
}
