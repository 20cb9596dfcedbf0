package database

type ForumRepository interface {
	Ping() error

	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int) (User, error)
	GetAccountByEmail(email string) (User, error)
	UpdateAccount(params UpdateAccountParams) (User, error)
	DeleteAccount(accountId int) error

	ListTopics(q string, limit int) ([]Topic, error)
	GetOrCreateTopic(name string) (Topic, bool, error)
	DeleteTopic(topicId int) error

	SearchRooms(q string) ([]Room, error)
	ListRoomsByHost(hostId int) ([]Room, error)
	GetRoom(roomId int) (Room, error)
	CreateRoom(params CreateRoomParams) (Room, error)
	UpdateRoom(params UpdateRoomParams) (Room, error)
	DeleteRoom(roomId int) error
	ListParticipants(roomId int) ([]User, error)

	PostMessage(params PostMessageParams) (Message, error)
	GetMessage(messageId int) (Message, error)
	DeleteMessage(messageId int) error
	ListRoomMessages(roomId int) ([]Message, error)
	ListMessagesByTopicName(q string) ([]Message, error)
	ListMessagesByUser(userId int) ([]Message, error)
	ListMessages() ([]Message, error)
}
