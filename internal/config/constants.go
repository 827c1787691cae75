// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "nocontact-keep"
	AppVersion = "1.0.0"
)

// 通知メールの送信方法
const (
	MailerLog  = "log"
	MailerSMTP = "smtp"
	MailerSES  = "ses"
)

// デフォルト設定値
const (
	DefaultDatabaseDriver         = DriverSQLite
	DefaultDatabaseURL            = "data/nocontact.db"
	DefaultServerPort             = ":8080"
	DefaultLogLevel               = "info"
	DefaultLogFormat              = "json"
	DefaultTotalProgramDays       = 90
	DefaultSeedNewUser            = true
	DefaultIntegrityCheckInterval = time.Hour
	DefaultMilestoneCheckInterval = 6 * time.Hour
	DefaultMailer                 = MailerLog
	DefaultSMTPPort               = 25
	DefaultSESRegion              = "ap-northeast-1"
)
