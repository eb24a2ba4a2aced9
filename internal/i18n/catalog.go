package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message keys used by the diagnostic page.
const (
	MsgPageTitle    = "Database Connection Test"
	MsgSwitch       = "Switch language"
	MsgProbeFailed  = "Probe failed"
	MsgProbeHealthy = "Connected"
	MsgGeneratedAt  = "Generated at %s"
)

var catalog = map[language.Tag]map[string]string{
	language.English: {
		MsgPageTitle:    "Database Connection Test",
		MsgSwitch:       "Switch language",
		MsgProbeFailed:  "Probe failed",
		MsgProbeHealthy: "Connected",
		MsgGeneratedAt:  "Generated at %s",
	},
	language.Chinese: {
		MsgPageTitle:    "数据库连接测试",
		MsgSwitch:       "切换语言",
		MsgProbeFailed:  "连接失败",
		MsgProbeHealthy: "连接成功",
		MsgGeneratedAt:  "生成时间 %s",
	},
}

func init() {
	for tag, msgs := range catalog {
		for key, val := range msgs {
			if err := message.SetString(tag, key, val); err != nil {
				panic(err)
			}
		}
	}
}
