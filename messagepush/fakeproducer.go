package messagepush

import (
	"sync"

	"github.com/0xPolygonHermez/zkevm-node/log"
)

const (
	fakeMessageLimit = 100
)

type fakeProducer struct {
	defaultTopic   string
	defaultPushKey string

	mu       sync.Mutex
	messages map[string][]string // Map from topic name to list of messages
}

func newFakeProducer(cfg Config) KafkaProducer {
	return &fakeProducer{
		defaultTopic:   cfg.Topic,
		defaultPushKey: cfg.PushKey,
		messages:       make(map[string][]string),
	}
}

func (p *fakeProducer) Produce(msg interface{}, optFns ...produceOptFunc) error {
	opts := &produceOptions{
		topic:   p.defaultTopic,
		pushKey: p.defaultPushKey,
	}
	for _, f := range optFns {
		f(opts)
	}

	msgString, err := convertMsgToString(msg)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.messages[opts.topic] = append(p.messages[opts.topic], msgString)
	// Keep the latest 100 messages only
	if len(p.messages[opts.topic]) > fakeMessageLimit {
		p.messages[opts.topic] = p.messages[opts.topic][1:]
	}
	p.mu.Unlock()
	log.Debugf("Produced to fake producer: topic[%v] msg[%v]", opts.topic, msgString)
	return nil
}

func (p *fakeProducer) PushTransactionUpdate(update *TransactionUpdate, optFns ...produceOptFunc) error {
	if update == nil {
		return nil
	}
	msg, err := buildPushMessage(BizCodeVaultTransaction, update.Account, update)
	if err != nil {
		return err
	}
	return p.Produce(msg, optFns...)
}

func (p *fakeProducer) PushSnapshotUpdate(update *SnapshotUpdate, optFns ...produceOptFunc) error {
	if update == nil {
		return nil
	}
	msg, err := buildPushMessage(BizCodeVaultSnapshot, update.Account, update)
	if err != nil {
		return err
	}
	return p.Produce(msg, optFns...)
}

func (p *fakeProducer) Close() error {
	return nil
}

// GetFakeMessages returns latest 100 messages from the topic name
func (p *fakeProducer) GetFakeMessages(topic string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	allMsg := p.messages[topic]
	p.messages[topic] = []string{}
	return allMsg
}
