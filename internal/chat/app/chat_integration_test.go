package app

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/registry"
	"chat_relay_service/internal/chat/repository"
	"chat_relay_service/pkg/database"
	"chat_relay_service/pkg/logger"
	"chat_relay_service/pkg/middlewares"
	testtool "chat_relay_service/pkg/test_tool"
	"chat_relay_service/pkg/token"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// **測試用的容器**
var chatApp *fiber.App
var testRoomRepo repository.RoomRepository

// **TestMain 初始化測試環境**
func TestMain(m *testing.M) {
	flag.Parse()
	logger.SetNewNop()

	// -short 只跑單元測試，不起容器
	if testing.Short() {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	// **啟動 PostgreSQL**
	pgContainer, pgHost, pgPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "chat",
			"POSTGRES_PASSWORD": "chat",
			"POSTGRES_DB":       "chat_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start PostgreSQL container: %v", err)
	}
	fmt.Printf("✅ PostgreSQL running at %s:%s\n", pgHost, pgPort)

	// **啟動 Redis**
	redisContainer, redisHost, redisPort, err := testtool.SetupContainer(ctx, testcontainers.ContainerRequest{
		Image:        "redis:latest",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	})
	if err != nil {
		log.Fatalf("❌ Failed to start Redis container: %v", err)
	}
	fmt.Printf("✅ Redis running at %s:%s\n", redisHost, redisPort)

	// **初始化 PostgreSQL (gorm)**
	gormDB, err := database.NewPGConnection(database.Connection{
		ConnectStr:    fmt.Sprintf("postgres://chat:chat@%s:%s/chat_test", pgHost, pgPort),
		RetryCount:    5,
		RetryInterval: 2,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to PostgreSQL: %v", err)
	}
	if err := gormDB.AutoMigrate(&domain.Message{}, &domain.Room{}); err != nil {
		log.Fatalf("❌ Failed to migrate: %v", err)
	}

	// **初始化 Redis**
	redisClient := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort),
		DB:   0,
	})

	// **初始化 Repository**
	msgRepo := repository.NewGormMessageRepository(gormDB)
	testRoomRepo = repository.NewGormRoomRepository(gormDB)
	pub := repository.NewRedisPubSub(redisClient)

	// **初始化 UseCases**
	reg := registry.NewRegistry(nil)
	guard := NewRoomGuard(testRoomRepo)
	roomUC := NewRoomUseCase(testRoomRepo)
	deliveryUC := NewDeliveryUseCase(msgRepo, pub, nil, reg, 100*time.Millisecond)
	messageUC := NewSendMessageUseCase(guard, msgRepo, pub, reg, deliveryUC, nil, nil, nil)
	typingUC := NewTypingBroadcaster(pub, reg, nil, 50*time.Millisecond, 1000)

	eventRouter := NewEventRouter(roomUC, messageUC, deliveryUC, typingUC, guard, reg, pub)

	// **初始化 Fiber WebSocket Server**
	chatApp = fiber.New()
	chatApp.Use(middlewares.JWTMiddleware())
	chatApp.Get("/ws", websocket.New(func(c *websocket.Conn) {
		eventRouter.HandleConnection(context.Background(), c)
	}))

	go func() {
		if err := chatApp.Listen(":8081"); err != nil {
			log.Fatalf("❌ Failed to start WebSocket server: %v", err)
		}
	}()
	fmt.Println("✅ WebSocket Server started at ws://localhost:8081/ws")

	time.Sleep(3 * time.Second)

	code := m.Run()

	pgContainer.Terminate(ctx)
	redisContainer.Terminate(ctx)
	os.Exit(code)
}

// dialAs 以 userID 的 token 連上 websocket
func dialAs(t *testing.T, userID string) *gws.Conn {
	t.Helper()
	jwt, err := token.GenerateJWT(userID, string(token.RoleUser), "chat_service")
	assert.NoError(t, err)

	conn, _, err := gws.DefaultDialer.Dial(fmt.Sprintf("ws://localhost:8081/ws?auth=%s", jwt), nil)
	assert.NoError(t, err)
	return conn
}

func send(t *testing.T, conn *gws.Conn, req domain.WSRequest) {
	t.Helper()
	assert.NoError(t, conn.WriteJSON(req))
}

// readUntil 讀到指定 action 為止，其餘事件略過
func readUntil(t *testing.T, conn *gws.Conn, action string) domain.WSResponse {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	conn.SetReadDeadline(deadline)

	for time.Now().Before(deadline) {
		var resp domain.WSResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("read websocket failed waiting for %s: %v", action, err)
		}
		if resp.Action == action {
			return resp
		}
	}
	t.Fatalf("did not receive %s in time", action)
	return domain.WSResponse{}
}

func payloadMap(t *testing.T, resp domain.WSResponse) map[string]interface{} {
	t.Helper()
	p, ok := resp.Payload.(map[string]interface{})
	assert.True(t, ok, "payload should be a JSON object")
	return p
}

func TestChatFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	room := &domain.Room{ID: "it-room", User1ID: "alice", User2ID: "bob"}
	assert.NoError(t, testRoomRepo.CreateRoom(context.Background(), room))

	alice := dialAs(t, "alice")
	defer alice.Close()
	bob := dialAs(t, "bob")
	defer bob.Close()

	// identify 後才可操作
	send(t, alice, domain.WSRequest{Action: domain.ActionIdentify})
	readUntil(t, alice, domain.ActionIdentify)
	send(t, bob, domain.WSRequest{Action: domain.ActionIdentify})
	readUntil(t, bob, domain.ActionIdentify)

	// 雙方進房
	send(t, alice, domain.WSRequest{Action: domain.ActionJoinRoom, RoomID: "it-room"})
	joined := readUntil(t, alice, domain.EventRoomJoined)
	assert.True(t, joined.Success)
	send(t, bob, domain.WSRequest{Action: domain.ActionJoinRoom, RoomID: "it-room"})
	readUntil(t, bob, domain.EventRoomJoined)

	// alice 發訊息，自己收到 ack，bob 收到訊息
	send(t, alice, domain.WSRequest{Action: domain.ActionSendMessage, RoomID: "it-room", Content: "Hello B!"})
	ack := readUntil(t, alice, domain.EventMessageAck)
	assert.True(t, ack.Success)

	got := readUntil(t, bob, domain.EventChatMessage)
	msg := payloadMap(t, got)
	assert.Equal(t, "Hello B!", msg["content"])
	messageID := int64(msg["id"].(float64))

	// bob 在線，auto delivery 會把狀態推給 alice
	status := readUntil(t, alice, domain.EventMessageStatus)
	sp := payloadMap(t, status)
	assert.Equal(t, string(domain.StatusDelivered), sp["status"])

	// bob 已讀，alice 收到 seen
	send(t, bob, domain.WSRequest{Action: domain.ActionSeenConfirm, MessageID: messageID})
	seen := readUntil(t, alice, domain.EventMessageSeen)
	assert.Equal(t, string(domain.StatusSeen), payloadMap(t, seen)["status"])
}

func TestTypingRelay(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	room := &domain.Room{ID: "it-typing", User1ID: "carol", User2ID: "dave"}
	assert.NoError(t, testRoomRepo.CreateRoom(context.Background(), room))

	carol := dialAs(t, "carol")
	defer carol.Close()
	dave := dialAs(t, "dave")
	defer dave.Close()

	send(t, carol, domain.WSRequest{Action: domain.ActionIdentify})
	readUntil(t, carol, domain.ActionIdentify)
	send(t, dave, domain.WSRequest{Action: domain.ActionIdentify})
	readUntil(t, dave, domain.ActionIdentify)

	send(t, carol, domain.WSRequest{Action: domain.ActionJoinRoom, RoomID: "it-typing"})
	readUntil(t, carol, domain.EventRoomJoined)
	send(t, dave, domain.WSRequest{Action: domain.ActionJoinRoom, RoomID: "it-typing"})
	readUntil(t, dave, domain.EventRoomJoined)

	send(t, carol, domain.WSRequest{
		Action: domain.ActionTypingUpdate,
		RoomID: "it-typing",
		Typing: &domain.TypingPayload{Content: "hel"},
	})

	update := readUntil(t, dave, domain.EventTypingUpdate)
	p := payloadMap(t, update)
	assert.Equal(t, "carol", p["user_id"])

	send(t, carol, domain.WSRequest{Action: domain.ActionTypingStop, RoomID: "it-typing"})
	readUntil(t, dave, domain.EventTypingStop)
}

func TestUnidentifiedActionRejected(t *testing.T) {
	if testing.Short() {
		t.Skip("integration test")
	}

	eve := dialAs(t, "eve")
	defer eve.Close()

	send(t, eve, domain.WSRequest{Action: domain.ActionJoinRoom, RoomID: "it-room"})
	resp := readUntil(t, eve, domain.ActionJoinRoom)
	assert.False(t, resp.Success)
	assert.Equal(t, "not identified", resp.Error)
}
