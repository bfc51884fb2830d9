package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"sync"
	"time"

	catalogModel "shop_engine/internal/domain/catalog/model"
	inventoryModel "shop_engine/internal/domain/inventory/model"
	"shop_engine/internal/domain/inventory/repository"
	"shop_engine/internal/domain/inventory/service"
	"shop_engine/internal/pkg/config"
	"shop_engine/pkg/database"
)

// 并发扣减同一规格的库存，验证不会超卖
func main() {
	var (
		variantID = flag.String("variant", "", "规格 ID (必填)")
		users     = flag.Int("users", 1000, "并发下单人数")
		qty       = flag.Int("qty", 1, "每人购买数量")
		stock     = flag.Int("stock", 5, "压测前重置的库存")
	)
	flag.Parse()
	if *variantID == "" {
		log.Fatal("-variant is required")
	}

	config.LoadConfig()
	db := database.InitDatabase()
	ctx := context.Background()

	// 1. 重置库存
	if err := db.Model(&catalogModel.Variant{}).Where("id = ?", *variantID).Update("stock", *stock).Error; err != nil {
		log.Fatalf("重置库存失败: %v", err)
	}
	inventory := service.NewInventoryService(repository.NewInventoryRepository(db), nil)

	fmt.Printf("开始压测：模拟 %d 个用户各抢 %d 件，库存 %d (Variant: %s)...\n", *users, *qty, *stock, *variantID)

	// 2. 并发扣减
	var (
		wg           sync.WaitGroup
		mu           sync.Mutex
		successCount int
		rejectCount  int
		errorCount   int
	)
	start := time.Now()

	for i := 0; i < *users; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := inventory.Reserve(ctx, *variantID, *qty)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successCount++
			case errors.Is(err, inventoryModel.ErrInventoryRejected):
				rejectCount++
			default:
				errorCount++
			}
		}()
	}

	wg.Wait()
	duration := time.Since(start)

	// 3. 校验剩余库存
	var left catalogModel.Variant
	if err := db.Select("stock").Where("id = ?", *variantID).First(&left).Error; err != nil {
		log.Fatalf("读取库存失败: %v", err)
	}

	expected := *stock / *qty
	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("QPS: %.2f\n", float64(*users)/duration.Seconds())
	fmt.Printf("扣减成功: %d (预期: %d)\n", successCount, expected)
	fmt.Printf("库存不足: %d\n", rejectCount)
	fmt.Printf("其他错误: %d\n", errorCount)
	fmt.Printf("剩余库存: %d\n", left.Stock)
	fmt.Println("--------------------------------------------------")
	if successCount > expected || left.Stock < 0 {
		log.Fatal("库存超卖")
	}
}
