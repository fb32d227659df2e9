package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"walmart_dev_v1_202608/internal/model"
)

// ==================== 接口 ====================

// FeedPublisher 下游提交管道的投递边界
// 引擎的契约止于产出一个合法信封并投出，后续状态追踪不归引擎管
type FeedPublisher interface {
	Publish(ctx context.Context, envelope *model.ListingEnvelope) error
	Close() error
}

// ==================== Kafka 实现 ====================

// KafkaFeedPublisher 把通过预检的信封发布到 Kafka 主题
type KafkaFeedPublisher struct {
	writer *kafka.Writer
}

func NewKafkaFeedPublisher(broker, topic string) *KafkaFeedPublisher {
	return &KafkaFeedPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(broker),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// Publish 投递信封
// 分区键用首条商品的 SKU，同一 SKU 的反复提交保持有序
func (p *KafkaFeedPublisher) Publish(ctx context.Context, envelope *model.ListingEnvelope) error {
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("信封序列化失败: %v", err)
	}

	var key []byte
	if len(envelope.Items) > 0 {
		key = []byte(envelope.Items[0].Offer.SKU)
	}

	msg := kafka.Message{
		Key:   key,
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("信封投递失败: %v", err)
	}
	return nil
}

func (p *KafkaFeedPublisher) Close() error {
	return p.writer.Close()
}
