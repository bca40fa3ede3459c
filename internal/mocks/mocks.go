package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linkup-service/internal/models"
	"linkup-service/internal/repositories"
)

type ConnectionRepositoryMock struct {
	mock.Mock
}

func (m *ConnectionRepositoryMock) Create(ctx context.Context, requesterID, recipientID int, message string) (models.Connection, error) {
	args := m.Called(ctx, requesterID, recipientID, message)
	var conn models.Connection
	if val := args.Get(0); val != nil {
		conn = val.(models.Connection)
	}
	return conn, args.Error(1)
}

func (m *ConnectionRepositoryMock) GetBetween(ctx context.Context, userA, userB int) (models.Connection, error) {
	args := m.Called(ctx, userA, userB)
	var conn models.Connection
	if val := args.Get(0); val != nil {
		conn = val.(models.Connection)
	}
	return conn, args.Error(1)
}

func (m *ConnectionRepositoryMock) ListIncoming(ctx context.Context, userID int) ([]models.PendingRequest, error) {
	args := m.Called(ctx, userID)
	var requests []models.PendingRequest
	if val := args.Get(0); val != nil {
		requests = val.([]models.PendingRequest)
	}
	return requests, args.Error(1)
}

func (m *ConnectionRepositoryMock) ListOutgoing(ctx context.Context, userID int) ([]models.PendingRequest, error) {
	args := m.Called(ctx, userID)
	var requests []models.PendingRequest
	if val := args.Get(0); val != nil {
		requests = val.([]models.PendingRequest)
	}
	return requests, args.Error(1)
}

func (m *ConnectionRepositoryMock) Respond(ctx context.Context, connectionID, responderID int, status string) (models.Connection, error) {
	args := m.Called(ctx, connectionID, responderID, status)
	var conn models.Connection
	if val := args.Get(0); val != nil {
		conn = val.(models.Connection)
	}
	return conn, args.Error(1)
}

func (m *ConnectionRepositoryMock) ListAccepted(ctx context.Context, userID int) ([]models.AcceptedConnection, error) {
	args := m.Called(ctx, userID)
	var connections []models.AcceptedConnection
	if val := args.Get(0); val != nil {
		connections = val.([]models.AcceptedConnection)
	}
	return connections, args.Error(1)
}

func (m *ConnectionRepositoryMock) IsConnected(ctx context.Context, userA, userB int) (bool, error) {
	args := m.Called(ctx, userA, userB)
	return args.Bool(0), args.Error(1)
}

func (m *ConnectionRepositoryMock) Remove(ctx context.Context, connectionID, userID int) (models.Connection, error) {
	args := m.Called(ctx, connectionID, userID)
	var conn models.Connection
	if val := args.Get(0); val != nil {
		conn = val.(models.Connection)
	}
	return conn, args.Error(1)
}

type ConversationRepositoryMock struct {
	mock.Mock
}

func (m *ConversationRepositoryMock) GetOrCreate(ctx context.Context, userA, userB int) (models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetByID(ctx context.Context, conversationID int) (models.Conversation, error) {
	args := m.Called(ctx, conversationID)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

func (m *ConversationRepositoryMock) GetByParticipants(ctx context.Context, userA, userB int) (models.Conversation, error) {
	args := m.Called(ctx, userA, userB)
	var conv models.Conversation
	if val := args.Get(0); val != nil {
		conv = val.(models.Conversation)
	}
	return conv, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) Create(ctx context.Context, conversationID, senderID, receiverID int, body string) (models.Message, error) {
	args := m.Called(ctx, conversationID, senderID, receiverID, body)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListByConversation(ctx context.Context, conversationID int) ([]models.Message, error) {
	args := m.Called(ctx, conversationID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) Create(ctx context.Context, user models.User) (models.User, error) {
	args := m.Called(ctx, user)
	var created models.User
	if val := args.Get(0); val != nil {
		created = val.(models.User)
	}
	return created, args.Error(1)
}

func (m *UserRepositoryMock) GetByID(ctx context.Context, userID int) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) PublicByIDs(ctx context.Context, ids []int) ([]models.PublicProfile, error) {
	args := m.Called(ctx, ids)
	var users []models.PublicProfile
	if val := args.Get(0); val != nil {
		users = val.([]models.PublicProfile)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) Search(ctx context.Context, term string, excludeID int) ([]models.PublicProfile, error) {
	args := m.Called(ctx, term, excludeID)
	var users []models.PublicProfile
	if val := args.Get(0); val != nil {
		users = val.([]models.PublicProfile)
	}
	return users, args.Error(1)
}

func (m *UserRepositoryMock) UpdateProfile(ctx context.Context, userID int, update repositories.ProfileUpdate) (models.User, error) {
	args := m.Called(ctx, userID, update)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ repositories.ConnectionRepository = (*ConnectionRepositoryMock)(nil)
var _ repositories.ConversationRepository = (*ConversationRepositoryMock)(nil)
var _ repositories.MessageRepository = (*MessageRepositoryMock)(nil)
var _ repositories.UserRepository = (*UserRepositoryMock)(nil)
