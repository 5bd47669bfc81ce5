package net

// SessionStore tracks the sessions the game loop owns. Game loop only, no
// locks. Iteration follows arrival order so output is flushed fairly.
type SessionStore struct {
	byID  map[uint64]*Session
	order []uint64
}

func NewSessionStore() *SessionStore {
	return &SessionStore{byID: make(map[uint64]*Session)}
}

func (s *SessionStore) Add(sess *Session) {
	if _, ok := s.byID[sess.ID]; ok {
		return
	}
	s.byID[sess.ID] = sess
	s.order = append(s.order, sess.ID)
}

func (s *SessionStore) Get(id uint64) (*Session, bool) {
	sess, ok := s.byID[id]
	return sess, ok
}

func (s *SessionStore) Remove(id uint64) {
	if _, ok := s.byID[id]; !ok {
		return
	}
	delete(s.byID, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *SessionStore) Len() int { return len(s.byID) }

// ForEach visits sessions in arrival order. fn may remove the visited session.
func (s *SessionStore) ForEach(fn func(*Session)) {
	ids := append([]uint64(nil), s.order...)
	for _, id := range ids {
		if sess, ok := s.byID[id]; ok {
			fn(sess)
		}
	}
}
