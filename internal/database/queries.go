package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const (
	accountColumns = "id, username, email, password_hash, avatar, created_at, updated_at"

	roomColumns = "r.id, COALESCE(r.host_id, 0), COALESCE(a.username, ''), COALESCE(a.avatar, ''), " +
		"COALESCE(r.topic_id, 0), COALESCE(t.name, ''), r.name, r.description, r.created_at, r.updated_at"
	roomFrom = " FROM rooms r LEFT JOIN accounts a ON a.id = r.host_id LEFT JOIN topics t ON t.id = r.topic_id"

	messageColumns = "m.id, m.user_id, a.username, a.avatar, m.room_id, r.name, m.body, m.created_at, m.updated_at"
	messageFrom    = " FROM messages m JOIN accounts a ON a.id = m.user_id JOIN rooms r ON r.id = m.room_id"

	recentFirst = " ORDER BY %[1]s.updated_at DESC, %[1]s.created_at DESC"

	addParticipantQuery = "INSERT INTO room_participants (room_id, account_id) VALUES ($1, $2) ON CONFLICT DO NOTHING"
)

var (
	roomsRecentFirst    = fmt.Sprintf(recentFirst, "r")
	messagesRecentFirst = fmt.Sprintf(recentFirst, "m")
)

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (User, error) {
	var u User
	err := row.Scan(
		&u.Id,
		&u.Username,
		&u.EmailAddress,
		&u.PasswordHash,
		&u.Avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

func scanRoom(row scanner) (Room, error) {
	var room Room
	err := row.Scan(
		&room.Id,
		&room.HostId,
		&room.HostUsername,
		&room.HostAvatar,
		&room.TopicId,
		&room.TopicName,
		&room.Name,
		&room.Description,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	return room, err
}

func scanMessage(row scanner) (Message, error) {
	var msg Message
	err := row.Scan(
		&msg.Id,
		&msg.UserId,
		&msg.Username,
		&msg.UserAvatar,
		&msg.RoomId,
		&msg.RoomName,
		&msg.Body,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	return msg, err
}

func (db *PgForumRepository) CreateAccount(params CreateAccountParams) (User, error) {
	now := time.Now().UTC()
	row := db.conn.QueryRow(
		"INSERT INTO accounts (username, email, password_hash, created_at, updated_at) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING "+accountColumns,
		params.Username,
		params.EmailAddress,
		params.PasswordHash,
		now,
		now,
	)

	u, err := scanAccount(row)
	if err != nil {
		return User{}, wrapWriteErr("create account", err)
	}

	return u, nil
}

func (db *PgForumRepository) GetAccountById(id int) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE id = $1 LIMIT 1",
		id,
	)

	return scanAccount(row)
}

func (db *PgForumRepository) GetAccountByEmail(email string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT "+accountColumns+" FROM accounts WHERE email = $1 LIMIT 1",
		email,
	)

	return scanAccount(row)
}

func (db *PgForumRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	row := db.conn.QueryRow(
		"UPDATE accounts SET username = $2, email = $3, avatar = $4, updated_at = $5 "+
			"WHERE id = $1 RETURNING "+accountColumns,
		params.UserId,
		params.Username,
		params.EmailAddress,
		params.Avatar,
		time.Now().UTC(),
	)

	u, err := scanAccount(row)
	if err != nil {
		return User{}, wrapWriteErr("update account", err)
	}

	return u, nil
}

// DeleteAccount removes an account with its messages and memberships.
// Rooms it hosts are kept without a host.
func (db *PgForumRepository) DeleteAccount(id int) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM messages WHERE user_id = $1", id); err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM room_participants WHERE account_id = $1", id); err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}

		if _, err := tx.Exec("UPDATE rooms SET host_id = NULL WHERE host_id = $1", id); err != nil {
			return fmt.Errorf("clear room host: %w", err)
		}

		res, err := tx.Exec("DELETE FROM accounts WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}

		return expectAffected(res)
	})
}

// ListTopics returns topics whose name contains q in storage order. A
// limit of zero or less returns every match.
func (db *PgForumRepository) ListTopics(q string, limit int) ([]Topic, error) {
	var lim sql.NullInt64
	if limit > 0 {
		lim = sql.NullInt64{Int64: int64(limit), Valid: true}
	}

	rows, err := db.conn.Query(
		"SELECT t.id, t.name, COUNT(r.id) FROM topics t "+
			"LEFT JOIN rooms r ON r.topic_id = t.id "+
			`WHERE t.name ILIKE $1 ESCAPE '\' `+
			"GROUP BY t.id, t.name ORDER BY t.id LIMIT $2",
		containsPattern(q),
		lim,
	)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := make([]Topic, 0)
	for rows.Next() {
		var topic Topic
		if err := rows.Scan(&topic.Id, &topic.Name, &topic.RoomCount); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}

	return topics, rows.Err()
}

func (db *PgForumRepository) GetOrCreateTopic(name string) (Topic, bool, error) {
	return getOrCreateTopic(db.conn, name)
}

// getOrCreateTopic reuses the oldest topic named exactly name and
// creates one otherwise.
func getOrCreateTopic(q querier, name string) (Topic, bool, error) {
	topic := Topic{Name: name}
	err := q.QueryRow("SELECT id FROM topics WHERE name = $1 ORDER BY id LIMIT 1", name).Scan(&topic.Id)
	if err == nil {
		return topic, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Topic{}, false, fmt.Errorf("get topic: %w", err)
	}

	err = q.QueryRow("INSERT INTO topics (name) VALUES ($1) RETURNING id", name).Scan(&topic.Id)
	if err != nil {
		return Topic{}, false, wrapWriteErr("create topic", err)
	}

	return topic, true, nil
}

// resolveTopic maps an empty topic name to no topic.
func resolveTopic(q querier, name string) (sql.NullInt64, error) {
	if name == "" {
		return sql.NullInt64{}, nil
	}

	topic, _, err := getOrCreateTopic(q, name)
	if err != nil {
		return sql.NullInt64{}, err
	}

	return sql.NullInt64{Int64: int64(topic.Id), Valid: true}, nil
}

// DeleteTopic removes a topic and detaches the rooms filed under it.
func (db *PgForumRepository) DeleteTopic(id int) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("UPDATE rooms SET topic_id = NULL WHERE topic_id = $1", id); err != nil {
			return fmt.Errorf("clear room topic: %w", err)
		}

		res, err := tx.Exec("DELETE FROM topics WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}

		return expectAffected(res)
	})
}

func (db *PgForumRepository) queryRooms(query string, args ...any) ([]Room, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}

// SearchRooms returns rooms whose topic name, name or description
// contains q, case-insensitively.
func (db *PgForumRepository) SearchRooms(q string) ([]Room, error) {
	rooms, err := db.queryRooms(
		"SELECT "+roomColumns+roomFrom+" WHERE "+roomSearchPredicate+roomsRecentFirst,
		containsPattern(q),
	)
	if err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}

	return rooms, nil
}

func (db *PgForumRepository) ListRoomsByHost(hostId int) ([]Room, error) {
	rooms, err := db.queryRooms(
		"SELECT "+roomColumns+roomFrom+" WHERE r.host_id = $1"+roomsRecentFirst,
		hostId,
	)
	if err != nil {
		return nil, fmt.Errorf("list rooms by host: %w", err)
	}

	return rooms, nil
}

func (db *PgForumRepository) GetRoom(id int) (Room, error) {
	row := db.conn.QueryRow("SELECT "+roomColumns+roomFrom+" WHERE r.id = $1 LIMIT 1", id)

	return scanRoom(row)
}

func (db *PgForumRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	var roomId int
	err := db.withTx(func(tx *sql.Tx) error {
		topicId, err := resolveTopic(tx, params.TopicName)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		return tx.QueryRow(
			"INSERT INTO rooms (host_id, topic_id, name, description, created_at, updated_at) "+
				"VALUES ($1, $2, $3, $4, $5, $6) RETURNING id",
			params.HostId,
			topicId,
			params.Name,
			params.Description,
			now,
			now,
		).Scan(&roomId)
	})
	if err != nil {
		return Room{}, fmt.Errorf("create room: %w", err)
	}

	return db.GetRoom(roomId)
}

// UpdateRoom overwrites the name, description and topic of a room.
func (db *PgForumRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	err := db.withTx(func(tx *sql.Tx) error {
		topicId, err := resolveTopic(tx, params.TopicName)
		if err != nil {
			return err
		}

		res, err := tx.Exec(
			"UPDATE rooms SET name = $2, description = $3, topic_id = $4, updated_at = $5 WHERE id = $1",
			params.RoomId,
			params.Name,
			params.Description,
			topicId,
			time.Now().UTC(),
		)
		if err != nil {
			return err
		}

		return expectAffected(res)
	})
	if err != nil {
		return Room{}, fmt.Errorf("update room: %w", err)
	}

	return db.GetRoom(params.RoomId)
}

// DeleteRoom removes a room together with its messages and
// memberships. The topic is left in place.
func (db *PgForumRepository) DeleteRoom(id int) error {
	return db.withTx(func(tx *sql.Tx) error {
		if _, err := tx.Exec("DELETE FROM messages WHERE room_id = $1", id); err != nil {
			return fmt.Errorf("delete messages: %w", err)
		}

		if _, err := tx.Exec("DELETE FROM room_participants WHERE room_id = $1", id); err != nil {
			return fmt.Errorf("delete participants: %w", err)
		}

		res, err := tx.Exec("DELETE FROM rooms WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("delete room: %w", err)
		}

		return expectAffected(res)
	})
}

func (db *PgForumRepository) ListParticipants(roomId int) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT a.id, a.username, a.avatar FROM room_participants p "+
			"JOIN accounts a ON a.id = p.account_id WHERE p.room_id = $1 ORDER BY a.username",
		roomId,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.Id, &u.Username, &u.Avatar); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// PostMessage stores a message and records its author as a participant
// of the room in the same transaction.
func (db *PgForumRepository) PostMessage(params PostMessageParams) (Message, error) {
	var msgId int
	err := db.withTx(func(tx *sql.Tx) error {
		now := time.Now().UTC()
		err := tx.QueryRow(
			"INSERT INTO messages (user_id, room_id, body, created_at, updated_at) "+
				"VALUES ($1, $2, $3, $4, $5) RETURNING id",
			params.UserId,
			params.RoomId,
			params.Body,
			now,
			now,
		).Scan(&msgId)
		if err != nil {
			return err
		}

		_, err = tx.Exec(addParticipantQuery, params.RoomId, params.UserId)
		return err
	})
	if err != nil {
		return Message{}, fmt.Errorf("post message: %w", err)
	}

	return db.GetMessage(msgId)
}

func (db *PgForumRepository) GetMessage(id int) (Message, error) {
	row := db.conn.QueryRow("SELECT "+messageColumns+messageFrom+" WHERE m.id = $1 LIMIT 1", id)

	return scanMessage(row)
}

func (db *PgForumRepository) DeleteMessage(id int) error {
	res, err := db.conn.Exec("DELETE FROM messages WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}

	return expectAffected(res)
}

func (db *PgForumRepository) queryMessages(query string, args ...any) ([]Message, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}

	return messages, rows.Err()
}

func (db *PgForumRepository) ListRoomMessages(roomId int) ([]Message, error) {
	messages, err := db.queryMessages(
		"SELECT "+messageColumns+messageFrom+" WHERE m.room_id = $1"+messagesRecentFirst,
		roomId,
	)
	if err != nil {
		return nil, fmt.Errorf("list room messages: %w", err)
	}

	return messages, nil
}

// ListMessagesByTopicName returns messages posted in rooms whose topic
// name contains q. Messages in rooms without a topic never match.
func (db *PgForumRepository) ListMessagesByTopicName(q string) ([]Message, error) {
	messages, err := db.queryMessages(
		"SELECT "+messageColumns+messageFrom+" JOIN topics t ON t.id = r.topic_id "+
			`WHERE t.name ILIKE $1 ESCAPE '\'`+messagesRecentFirst,
		containsPattern(q),
	)
	if err != nil {
		return nil, fmt.Errorf("list messages by topic: %w", err)
	}

	return messages, nil
}

func (db *PgForumRepository) ListMessagesByUser(userId int) ([]Message, error) {
	messages, err := db.queryMessages(
		"SELECT "+messageColumns+messageFrom+" WHERE m.user_id = $1"+messagesRecentFirst,
		userId,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages by user: %w", err)
	}

	return messages, nil
}

func (db *PgForumRepository) ListMessages() ([]Message, error) {
	messages, err := db.queryMessages("SELECT " + messageColumns + messageFrom + messagesRecentFirst)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}
