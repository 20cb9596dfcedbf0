package database

import (
	"github.com/stretchr/testify/mock"
)

type MockForumRepository struct {
	mock.Mock
}

func (m *MockForumRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockForumRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) GetAccountById(accountId int) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) GetAccountByEmail(email string) (User, error) {
	args := m.Called(email)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) UpdateAccount(params UpdateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockForumRepository) DeleteAccount(accountId int) error {
	args := m.Called(accountId)
	return args.Error(0)
}
func (m *MockForumRepository) ListTopics(q string, limit int) ([]Topic, error) {
	args := m.Called(q, limit)
	return args.Get(0).([]Topic), args.Error(1)
}
func (m *MockForumRepository) GetOrCreateTopic(name string) (Topic, bool, error) {
	args := m.Called(name)
	return args.Get(0).(Topic), args.Bool(1), args.Error(2)
}
func (m *MockForumRepository) DeleteTopic(topicId int) error {
	args := m.Called(topicId)
	return args.Error(0)
}
func (m *MockForumRepository) SearchRooms(q string) ([]Room, error) {
	args := m.Called(q)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockForumRepository) ListRoomsByHost(hostId int) ([]Room, error) {
	args := m.Called(hostId)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockForumRepository) GetRoom(roomId int) (Room, error) {
	args := m.Called(roomId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockForumRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockForumRepository) UpdateRoom(params UpdateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockForumRepository) DeleteRoom(roomId int) error {
	args := m.Called(roomId)
	return args.Error(0)
}
func (m *MockForumRepository) ListParticipants(roomId int) ([]User, error) {
	args := m.Called(roomId)
	return args.Get(0).([]User), args.Error(1)
}
func (m *MockForumRepository) PostMessage(params PostMessageParams) (Message, error) {
	args := m.Called(params)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockForumRepository) GetMessage(messageId int) (Message, error) {
	args := m.Called(messageId)
	return args.Get(0).(Message), args.Error(1)
}
func (m *MockForumRepository) DeleteMessage(messageId int) error {
	args := m.Called(messageId)
	return args.Error(0)
}
func (m *MockForumRepository) ListRoomMessages(roomId int) ([]Message, error) {
	args := m.Called(roomId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockForumRepository) ListMessagesByTopicName(q string) ([]Message, error) {
	args := m.Called(q)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockForumRepository) ListMessagesByUser(userId int) ([]Message, error) {
	args := m.Called(userId)
	return args.Get(0).([]Message), args.Error(1)
}
func (m *MockForumRepository) ListMessages() ([]Message, error) {
	args := m.Called()
	return args.Get(0).([]Message), args.Error(1)
}
