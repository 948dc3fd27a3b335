package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	chatapp "chat_relay_service/internal/chat/app"
	chatdomain "chat_relay_service/internal/chat/domain"
	"chat_relay_service/internal/chat/registry"
	chatrepo "chat_relay_service/internal/chat/repository"
	chatrouter "chat_relay_service/internal/chat/router"
	userapp "chat_relay_service/internal/user/app"
	userdomain "chat_relay_service/internal/user/domain"
	userrepo "chat_relay_service/internal/user/repository"
	userrouter "chat_relay_service/internal/user/router"
	"chat_relay_service/pkg/config"
	"chat_relay_service/pkg/database"
	"chat_relay_service/pkg/logger"
	testtool "chat_relay_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.ChatService, config.EnvConfig.ChatServiceLogPath)
	cfg := config.LoadConfig[config.Chat](config.EnvConfig.ChatService, config.EnvConfig.ChatServiceYAMLPath)

	ctx := context.Background()

	// 1. PostgreSQL (gorm) 存訊息與房間
	pgURI := fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		cfg.PostgreSQL.User, cfg.PostgreSQL.Password, cfg.PostgreSQL.Host, cfg.PostgreSQL.Port, cfg.PostgreSQL.Database)
	gormDB, err := database.NewPGConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to postgreSQL database after retries",
			zap.String("address", fmt.Sprintf("[%s]", pgURI)),
			zap.Error(err),
		)
	}
	if err := gormDB.AutoMigrate(&chatdomain.Message{}, &chatdomain.Room{}); err != nil {
		logger.Log.Fatal("auto migrate failed", zap.Error(err))
	}

	// 2. PostgreSQL (pgx) 存使用者
	pool, err := database.NewDatabaseConnection(database.Connection{
		ConnectStr:    pgURI,
		RetryCount:    cfg.PostgreSQL.RetryCount,
		RetryInterval: time.Duration(cfg.PostgreSQL.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to pgx pool after retries", zap.Error(err))
	}
	defer pool.Close()

	// 3. Redis (Pub/Sub 與 session)
	masterName, sentinel := config.GetRedisSetting()
	redisClient, err := database.NewRedisClient(masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis err : %v", err))
	}
	sessionRepo, err := database.NewRedisRepository[userdomain.UserSession](masterName, sentinel, cfg.Redis.RedisDB)
	if err != nil {
		logger.Log.Fatal(fmt.Sprintf("connect redis session repo err : %v", err))
	}

	// 4. Mongo (typing 分析)
	mongoURI := fmt.Sprintf("mongodb://%s:%s@%s:%d", cfg.Mongo.User, cfg.Mongo.Password, cfg.Mongo.Host, cfg.Mongo.Port)
	mongo, err := database.NewMongoDB(ctx,
		database.Connection{
			ConnectStr:    mongoURI,
			RetryCount:    cfg.Mongo.RetryCount,
			RetryInterval: time.Duration(cfg.Mongo.RetryInterval),
		},
		cfg.Mongo.Database)
	if err != nil {
		logger.Log.Fatal(
			"Unable to connect to mongoDB database after retries",
			zap.String("address", fmt.Sprintf("[%s]", mongoURI)),
			zap.Error(err),
		)
	}
	defer mongo.Close(ctx)

	// 5. Kafka (事件流)
	kafkaWriter, err := database.NewKafkaWriterWithRetry(database.KafkaConnection{
		Brokers:       cfg.Kafka.Brokers,
		Topic:         cfg.Kafka.Topic,
		RetryCount:    cfg.Kafka.RetryCount,
		RetryInterval: time.Duration(cfg.Kafka.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to create kafka writer after retries", zap.Error(err))
	}
	defer kafkaWriter.Close()

	// 6. RabbitMQ (離線推播佇列)
	rabbitConn, err := database.ConnectRabbitMQWithRetry(database.Connection{
		ConnectStr:    fmt.Sprintf("amqp://%s:%s@%s:%s/", cfg.RabbitMQ.User, cfg.RabbitMQ.Password, cfg.RabbitMQ.IP, cfg.RabbitMQ.Port),
		RetryCount:    cfg.RabbitMQ.RetryCount,
		RetryInterval: time.Duration(cfg.RabbitMQ.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to rabbitMQ after retries", zap.Error(err))
	}
	defer rabbitConn.Close()
	rabbitCh, err := database.GetRabbitMQChannelWithRetry(rabbitConn, cfg.RabbitMQ.RetryCount, time.Duration(cfg.RabbitMQ.RetryInterval))
	if err != nil {
		logger.Log.Fatal("Unable to get rabbitMQ channel after retries", zap.Error(err))
	}
	if _, err := rabbitCh.QueueDeclare(cfg.RabbitMQ.Queue, true, false, false, false, nil); err != nil {
		logger.Log.Fatal("Unable to declare rabbitMQ queue", zap.Error(err))
	}

	// 7. MinIO (媒體物件)
	minioClient, err := database.NewMinIOConnection(database.MinIOConnection{
		Endpoint:      fmt.Sprintf("%s:%d", cfg.MinIO.Host, cfg.MinIO.Port),
		User:          cfg.MinIO.User,
		Password:      cfg.MinIO.Password,
		BucketName:    cfg.MinIO.BucketName,
		UseSSL:        cfg.MinIO.UseSSL,
		RetryCount:    cfg.MinIO.RetryCount,
		RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
	})
	if err != nil {
		logger.Log.Fatal("Unable to connect to minIO after retries", zap.Error(err))
	}

	// 8. 初始化 Repository
	msgRepo := chatrepo.NewGormMessageRepository(gormDB)
	roomRepo := chatrepo.NewGormRoomRepository(gormDB)
	pub := chatrepo.NewRedisPubSub(redisClient)
	typingRepo := chatrepo.NewMongoTypingAnalyticsRepository(mongo.Database)
	feedRepo := chatrepo.NewKafkaEventFeedRepository(kafkaWriter)
	pushRepo := chatrepo.NewRabbitPushNotifyRepository(database.NewRabbitRepository(rabbitCh), cfg.RabbitMQ.Queue)
	mediaRepo := chatrepo.NewMinioMediaRepository(minioClient)
	userRepo := userrepo.NewUserRepository(pool)

	// 9. 初始化 UseCases
	userUC := userapp.NewUserUseCase(userRepo, 24*time.Hour, sessionRepo)
	reg := registry.NewRegistry(userUC.TouchLastActive)
	guard := chatapp.NewRoomGuard(roomRepo)
	roomUC := chatapp.NewRoomUseCase(roomRepo)
	deliveryUC := chatapp.NewDeliveryUseCase(msgRepo, pub, feedRepo, reg,
		time.Duration(cfg.Delivery.AutoDelayMS)*time.Millisecond)
	messageUC := chatapp.NewSendMessageUseCase(guard, msgRepo, pub, reg, deliveryUC, feedRepo, pushRepo, mediaRepo)

	var typingUC *chatapp.TypingBroadcaster
	if cfg.Typing.Enabled {
		typingUC = chatapp.NewTypingBroadcaster(pub, reg, typingRepo,
			time.Duration(cfg.Typing.MinIntervalMS)*time.Millisecond, cfg.Typing.MaxContentLen)
	} else {
		typingUC = chatapp.NewTypingBroadcaster(nil, reg, nil, 0, 0)
	}

	eventRouter := chatapp.NewEventRouter(roomUC, messageUC, deliveryUC, typingUC, guard, reg, pub)

	// 10. 啟動 Fiber
	r := fiber.New()
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.ChatServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	// 注册路由
	userrouter.RegisterRoutes(r, userapp.NewUserHandler(userUC))
	chatrouter.RegisterRoutes(r, eventRouter, chatapp.NewChatRestHandler(roomUC, messageUC))

	testtool.StartPprof()

	// Listen
	port := ":" + cfg.Port
	log.Printf("Chat Relay Service listening on %s", port)
	if err := r.Listen(port); err != nil {
		log.Fatalf("Failed to start Fiber: %v", err)
	}
}
