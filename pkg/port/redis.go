package port

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/nobletooth/dlist/pkg/storage"
	"github.com/tidwall/redcon"
)

const RedisOk = "OK"

var address = flag.String("address", ":6380", "The ip:port to listen on for Redis protocol.")

// redisCommand represents a Redis command with its arguments.
type redisCommand struct {
	command string   // Upper cased command name.
	args    [][]byte // Owned copies; redcon reuses its buffers once the handler returns.
}

// newRedisCommand converts the given raw redcon arguments to a redisCommand.
func newRedisCommand(rawArgs [][]byte) redisCommand {
	if len(rawArgs) == 0 {
		return redisCommand{}
	}
	command := redisCommand{command: strings.ToUpper(string(rawArgs[0])), args: make([][]byte, len(rawArgs)-1)}
	for i := 1; i < len(rawArgs); i++ {
		command.args[i-1] = bytes.Clone(rawArgs[i])
	}
	return command
}

// redisOutput conforms to a real Redis server output on non pub / sub commands.
type redisOutput struct {
	closeConnection bool    // Closes the connection if true.
	writeNil        bool    // Writes a nil value if true.
	err             *string // Error to return if set.
	writeInt        *int    // Writes an integer value if set.
	writeBulk       []byte  // Writes a bulk string if set.
	writeString     string  // Writes a simple string otherwise.
}

func closeRedisConnection(msg string) redisOutput {
	return redisOutput{writeString: msg, closeConnection: true}
}

func writeRedisNil() redisOutput {
	return redisOutput{writeNil: true}
}

func writeRedisInt(i int) redisOutput {
	return redisOutput{writeInt: &i}
}

func writeRedisBulk(b []byte) redisOutput {
	if b == nil { // A popped empty value is still a value, not nil.
		b = []byte{}
	}
	return redisOutput{writeBulk: b}
}

func writeRedisString(s string) redisOutput {
	return redisOutput{writeString: s}
}

func writeRedisError(err error) redisOutput {
	msg := "ERR " + err.Error()
	return redisOutput{err: &msg}
}

func wrongArity(command string) redisOutput {
	return writeRedisError(fmt.Errorf("wrong number of arguments for '%s' command", strings.ToLower(command)))
}

// isError reports whether the output carries a Redis error.
func (o redisOutput) isError() bool {
	return o.err != nil
}

// writeTo writes the output to the given connection.
func (o redisOutput) writeTo(conn redcon.Conn) {
	switch {
	case o.err != nil:
		conn.WriteError(*o.err)
	case o.writeNil:
		conn.WriteNull()
	case o.writeInt != nil:
		conn.WriteInt(*o.writeInt)
	case o.writeBulk != nil:
		conn.WriteBulk(o.writeBulk)
	default:
		conn.WriteString(o.writeString)
	}
}

type redisHandler struct {
	store *storage.Lists
}

// newRedisHandler creates a new redisHandler.
func newRedisHandler(store *storage.Lists) (*redisHandler, error) {
	if store == nil {
		return nil, errors.New("expected a non-nil storage")
	}
	return &redisHandler{store: store}, nil
}

// push handles LPUSH and RPUSH.
func (rh *redisHandler) push(cmd redisCommand, end storage.End) redisOutput {
	if len(cmd.args) < 2 {
		return wrongArity(cmd.command)
	}
	return writeRedisInt(rh.store.Push(cmd.args[0], end, cmd.args[1:]...))
}

// pop handles LPOP and RPOP.
func (rh *redisHandler) pop(cmd redisCommand, end storage.End) redisOutput {
	if len(cmd.args) != 1 {
		return wrongArity(cmd.command)
	}
	if value, found := rh.store.Pop(cmd.args[0], end); found {
		return writeRedisBulk(value)
	}
	return writeRedisNil()
}

func (rh *redisHandler) handle(cmd redisCommand) redisOutput {
	switch cmd.command {
	case "PING":
		switch len(cmd.args) {
		case 0:
			return writeRedisString("PONG")
		case 1:
			return writeRedisBulk(cmd.args[0])
		default:
			return wrongArity(cmd.command)
		}
	case "ECHO":
		if len(cmd.args) != 1 {
			return wrongArity(cmd.command)
		}
		return writeRedisBulk(cmd.args[0])
	case "QUIT":
		return closeRedisConnection(RedisOk)
	case "LPUSH":
		return rh.push(cmd, storage.Front)
	case "RPUSH":
		return rh.push(cmd, storage.Back)
	case "LPOP":
		return rh.pop(cmd, storage.Front)
	case "RPOP":
		return rh.pop(cmd, storage.Back)
	case "LLEN":
		if len(cmd.args) != 1 {
			return wrongArity(cmd.command)
		}
		return writeRedisInt(rh.store.Len(cmd.args[0]))
	case "EXISTS":
		if len(cmd.args) < 1 {
			return wrongArity(cmd.command)
		}
		existing := 0
		for _, key := range cmd.args {
			if rh.store.Exists(key) {
				existing++
			}
		}
		return writeRedisInt(existing)
	case "DEL":
		if len(cmd.args) < 1 {
			return wrongArity(cmd.command)
		}
		deletedCount := 0
		for _, key := range cmd.args {
			if rh.store.Delete(key) {
				deletedCount++
			}
		}
		return writeRedisInt(deletedCount)
	default:
		return writeRedisError(fmt.Errorf("unknown command '%s'", strings.ToLower(cmd.command)))
	}
}

// connectionID returns the id assigned to `conn` when it was accepted.
func connectionID(conn redcon.Conn) string {
	if id, ok := conn.Context().(uuid.UUID); ok {
		return id.String()
	}
	return "unknown"
}

// RunRedisServer starts a Redis protocol server on top of the given lists store.
// It blocks until `ctx` is cancelled or the server fails.
func RunRedisServer(ctx context.Context, store *storage.Lists) error {
	if *address == "" {
		return errors.New("expected a non-empty --address flag")
	}

	redisHandler, err := newRedisHandler(store)
	if err != nil {
		return fmt.Errorf("failed to create a new redis handler: %w", err)
	}

	redisServer := redcon.NewServerNetwork("tcp" /*net*/, *address,
		/*handler*/ func(conn redcon.Conn, cmd redcon.Command) {
			command := newRedisCommand(cmd.Args)
			output := redisHandler.handle(command)
			recordCommand(command.command, output)
			output.writeTo(conn)
			if output.closeConnection {
				if err := conn.Close(); err != nil {
					slog.Error("Failed to close connection.", "conn", connectionID(conn), "error", err)
				}
			}
		},
		/*accept*/ func(conn redcon.Conn) bool {
			id := uuid.New()
			conn.SetContext(id)
			connectionsMetric.Inc()
			slog.Debug("Accepted connection.", "conn", id, "remote", conn.RemoteAddr())
			return true // Accept all connections.
		},
		/*closed*/ func(conn redcon.Conn, err error) {
			connectionsMetric.Dec()
			if err != nil {
				slog.Debug("Connection closed with error.", "conn", connectionID(conn), "error", err)
				return
			}
			slog.Debug("Connection closed.", "conn", connectionID(conn))
		})

	listenSignal := make(chan error, 1)
	serverErrSignal := make(chan error, 1)
	go func() { serverErrSignal <- redisServer.ListenServeAndSignal(listenSignal) }()
	// Close fails with "not serving" until the listener is up.
	if err := <-listenSignal; err != nil {
		return fmt.Errorf("failed to listen on %s: %w", *address, err)
	}
	slog.Info("Redis server listening.", "address", *address)

	select {
	case <-ctx.Done():
		serverErr := redisServer.Close()
		storeErr := store.Close()
		if exitErr := errors.Join(serverErr, storeErr); exitErr != nil {
			return fmt.Errorf("failed to close dlist server: %w", exitErr)
		}
	case err := <-serverErrSignal:
		if err == nil {
			return errors.New("redis server stopped unexpectedly")
		}
		return fmt.Errorf("redis server stopped unexpectedly: %w", err)
	}

	return nil // Exited with no errors.
}
