package config

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/ninja0404/wallet-mirror/pkg/config/reader"
	jsonReader "github.com/ninja0404/wallet-mirror/pkg/config/reader/json"
	"github.com/ninja0404/wallet-mirror/pkg/config/source"
)

// config 默认配置管理器，持有全部数据源合并后的配置树
type config struct {
	sync.RWMutex

	opts   Options
	snap   *source.ChangeSet
	values reader.Values

	watchers []source.Watcher
	exit     chan bool
}

var defaultConfig = newConfig()

func newConfig() *config {
	return &config{
		opts: Options{
			Reader: jsonReader.NewReader(),
		},
		exit: make(chan bool),
	}
}

// Load 加载一个或多个数据源并合并
func (c *config) Load(sources ...source.Source) error {
	c.Lock()
	defer c.Unlock()

	c.opts.Source = append(c.opts.Source, sources...)

	sets := make([]*source.ChangeSet, 0, len(c.opts.Source))
	for _, s := range c.opts.Source {
		cs, err := s.Read()
		if err != nil {
			return errors.Wrapf(err, "read config source %s", s.String())
		}
		sets = append(sets, cs)
	}

	return c.reload(sets)
}

// reload 合并快照并重建配置树，调用方需持有写锁
func (c *config) reload(sets []*source.ChangeSet) error {
	merged, err := c.opts.Reader.Merge(sets...)
	if err != nil {
		return err
	}

	values, err := c.opts.Reader.Values(merged)
	if err != nil {
		return err
	}

	c.snap = merged
	c.values = values
	return nil
}

// Watch 启动所有数据源的变更监听，变更后整体重新加载
func (c *config) Watch() error {
	c.Lock()
	defer c.Unlock()

	for _, s := range c.opts.Source {
		w, err := s.Watch()
		if err != nil {
			return err
		}
		c.watchers = append(c.watchers, w)

		go func(w source.Watcher) {
			for {
				if _, err := w.Next(); err != nil {
					return
				}

				select {
				case <-c.exit:
					return
				default:
				}

				c.Lock()
				sets := make([]*source.ChangeSet, 0, len(c.opts.Source))
				for _, s := range c.opts.Source {
					cs, err := s.Read()
					if err != nil {
						continue
					}
					sets = append(sets, cs)
				}
				c.reload(sets)
				c.Unlock()
			}
		}(w)
	}

	return nil
}

func (c *config) Get(path ...string) reader.Value {
	c.RLock()
	defer c.RUnlock()

	if c.values == nil {
		// 未加载时返回空节点，避免调用方判空
		empty, _ := c.opts.Reader.Values(&source.ChangeSet{Data: []byte("{}"), Format: "json"})
		return empty.Get(path...)
	}
	return c.values.Get(path...)
}

func (c *config) Scan(v interface{}) error {
	c.RLock()
	defer c.RUnlock()

	if c.values == nil {
		return errors.New("config not loaded")
	}
	return c.values.Scan(v)
}

func (c *config) Bytes() []byte {
	c.RLock()
	defer c.RUnlock()

	if c.values == nil {
		return nil
	}
	return c.values.Bytes()
}

func (c *config) Close() error {
	select {
	case <-c.exit:
	default:
		close(c.exit)
	}

	for _, w := range c.watchers {
		w.Stop()
	}
	return nil
}

// Load 使用默认管理器加载数据源
func Load(sources ...source.Source) error {
	return defaultConfig.Load(sources...)
}

// Watch 使用默认管理器监听配置变更
func Watch() error {
	return defaultConfig.Watch()
}

// Get 读取指定路径的配置节点
func Get(path ...string) reader.Value {
	return defaultConfig.Get(path...)
}

// Scan 将整棵配置树反序列化到结构体
func Scan(v interface{}) error {
	return defaultConfig.Scan(v)
}

// Bytes 返回合并后的配置内容
func Bytes() []byte {
	return defaultConfig.Bytes()
}

// Close 停止监听并释放资源
func Close() error {
	return defaultConfig.Close()
}
