package security

import (
	"fmt"
	"math/rand"

	"github.com/Xushengqwer/anon_forum_service/constant"
)

// GenerateAnonID 生成一个匿名展示名，形如 "Shadow4821"。
// - 词表均匀随机 + [1000, 9999] 均匀随机整数
// - 纯函数，无副作用，不持久化任何状态
// - 不保证唯一：展示名只是装饰性标签，碰撞可接受，
//   同一来源的两次提交得到相互独立的标签（无身份连续性）
func GenerateAnonID() string {
	word := constant.AnonWordList[rand.Intn(len(constant.AnonWordList))]
	number := constant.AnonNumberMin + rand.Intn(constant.AnonNumberMax-constant.AnonNumberMin+1)
	return fmt.Sprintf("%s%d", word, number)
}
