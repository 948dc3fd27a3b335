package bdd

import "github.com/cucumber/godog"

// godog run ./tests/bdd/featureFiles/chat_relay.feature
// Use of godog CLI is deprecated, please use *testing.T instead.
// See https://github.com/cucumber/godog/discussions/478 for details.
// Feature: 1對1 即時聊天
//   In order to communicate in real time
//   As registered users
//   I want to exchange messages with delivery receipts and live typing

//   Background:
//     Given "alice" 已登入並取得 Token "tokenA"
//     And "bob" 已登入並取得 Token "tokenB"
//     And 已存在 1對1 聊天房間 with "alice" and "bob"

//   Scenario: 發送與接收訊息
//     When "alice" 發送訊息 "Hello B!"
//     Then "bob" 應該收到訊息 "Hello B!"
//     And "alice" 應該收到回執 "delivered"

//   Scenario: 已讀回執
//     Given "bob" 已收到訊息 "Hello B!"
//     When "bob" 標記訊息已讀
//     Then "alice" 應該收到回執 "seen"

//   Scenario: 非成員無法發話
//     When "mallory" 在房間發送訊息 "hi"
//     Then 請求應該被拒絕

//   Scenario: 即時輸入轉發
//     When "alice" 輸入中內容 "hel"
//     Then "bob" 應該看到 "alice" 輸入中 "hel"

func loginWithToken(arg1, arg2 string) error {
	return godog.ErrPending
}

func privateRoomExists(arg1, arg2 int, arg3, arg4 string) error {
	return godog.ErrPending
}

func sendsMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldReceiveMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldReceiveReceipt(arg1, arg2 string) error {
	return godog.ErrPending
}

func hasReceivedMessage(arg1, arg2 string) error {
	return godog.ErrPending
}

func marksMessageSeen(arg1 string) error {
	return godog.ErrPending
}

func sendsMessageInRoom(arg1, arg2 string) error {
	return godog.ErrPending
}

func requestRejected() error {
	return godog.ErrPending
}

func typesContent(arg1, arg2 string) error {
	return godog.ErrPending
}

func shouldSeeTyping(arg1, arg2, arg3 string) error {
	return godog.ErrPending
}

// InitializeChatRelayScenario register chat relay steps
func InitializeChatRelayScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^"([^"]*)" 已登入並取得 Token "([^"]*)"$`, loginWithToken)
	ctx.Step(`^已存在 (\d+)對(\d+) 聊天房間 with "([^"]*)" and "([^"]*)"$`, privateRoomExists)
	ctx.Step(`^"([^"]*)" 發送訊息 "([^"]*)"$`, sendsMessage)
	ctx.Step(`^"([^"]*)" 應該收到訊息 "([^"]*)"$`, shouldReceiveMessage)
	ctx.Step(`^"([^"]*)" 應該收到回執 "([^"]*)"$`, shouldReceiveReceipt)
	ctx.Step(`^"([^"]*)" 已收到訊息 "([^"]*)"$`, hasReceivedMessage)
	ctx.Step(`^"([^"]*)" 標記訊息已讀$`, marksMessageSeen)
	ctx.Step(`^"([^"]*)" 在房間發送訊息 "([^"]*)"$`, sendsMessageInRoom)
	ctx.Step(`^請求應該被拒絕$`, requestRejected)
	ctx.Step(`^"([^"]*)" 輸入中內容 "([^"]*)"$`, typesContent)
	ctx.Step(`^"([^"]*)" 應該看到 "([^"]*)" 輸入中 "([^"]*)"$`, shouldSeeTyping)
}
