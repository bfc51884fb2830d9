package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"shop_engine/internal/pkg/config"
	"shop_engine/pkg/utils"

	"github.com/google/uuid"
)

// 本地调试用，签发与认证服务同格式的 token
func main() {
	var (
		userID = flag.String("user", "", "用户 ID，为空时随机生成")
		admin  = flag.Bool("admin", false, "签发管理员 token")
	)
	flag.Parse()

	config.LoadConfig()

	uid := *userID
	if uid == "" {
		uid = uuid.NewString()
	}
	role := utils.RoleUser
	if *admin {
		role = utils.RoleAdmin
	}

	token, expireAt, err := utils.GenerateToken(uid, role)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sign token: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User ID: %s\n", uid)
	fmt.Printf("Role: %d\n", role)
	fmt.Printf("Expires: %s\n", expireAt.Format(time.RFC3339))
	fmt.Printf("Authorization: Bearer %s\n", token)
}
