package config

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

const schemaPackage = "dlist"

// The config schema. Every leaf field is named after the command line flag it sets; nested messages only group
// related flags together. Keep it in sync with the flags defined across the repo, `CollectUnregisteredFlags`
// reports the ones that are missing.
//
//	message Config {
//	  optional Log log = 1;
//	  optional Server server = 2;
//	  optional Storage storage = 3;
//	  optional Demo demo = 4;
//	}
var configSchema = &descriptorpb.FileDescriptorProto{
	Name:    proto.String("dlist/config.proto"),
	Package: proto.String(schemaPackage),
	Syntax:  proto.String("proto2"), // proto2 keeps field presence, so unset fields don't override flag defaults.
	MessageType: []*descriptorpb.DescriptorProto{
		{
			Name: proto.String("Config"),
			Field: []*descriptorpb.FieldDescriptorProto{
				messageField("log", 1, "Log"),
				messageField("server", 2, "Server"),
				messageField("storage", 3, "Storage"),
				messageField("demo", 4, "Demo"),
			},
		},
		{
			Name: proto.String("Log"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("log_handler_type", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("log_level", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("log_output", 3, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
		{
			Name: proto.String("Server"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("address", 1, descriptorpb.FieldDescriptorProto_TYPE_STRING),
				scalarField("metrics_address", 2, descriptorpb.FieldDescriptorProto_TYPE_STRING),
			},
		},
		{
			Name: proto.String("Storage"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("shard_count", 1, descriptorpb.FieldDescriptorProto_TYPE_INT32),
			},
		},
		{
			Name: proto.String("Demo"),
			Field: []*descriptorpb.FieldDescriptorProto{
				scalarField("show_slots", 1, descriptorpb.FieldDescriptorProto_TYPE_BOOL),
			},
		},
	},
}

// configDescriptor is the compiled `dlist.Config` message.
var configDescriptor = mustCompileSchema(configSchema, "Config")

func scalarField(
	name string, number int32, kind descriptorpb.FieldDescriptorProto_Type,
) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:   proto.String(name),
		Number: proto.Int32(number),
		Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:   kind.Enum(),
	}
}

func messageField(name string, number int32, messageName string) *descriptorpb.FieldDescriptorProto {
	return &descriptorpb.FieldDescriptorProto{
		Name:     proto.String(name),
		Number:   proto.Int32(number),
		Label:    descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
		Type:     descriptorpb.FieldDescriptorProto_TYPE_MESSAGE.Enum(),
		TypeName: proto.String("." + schemaPackage + "." + messageName),
	}
}

// compileSchema turns the given file descriptor proto into a message descriptor for `messageName`.
func compileSchema(
	schema *descriptorpb.FileDescriptorProto, messageName string,
) (protoreflect.MessageDescriptor, error) {
	file, err := protodesc.NewFile(schema, nil /*resolver*/)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}
	md := file.Messages().ByName(protoreflect.Name(messageName))
	if md == nil {
		return nil, fmt.Errorf("config schema has no message '%s'", messageName)
	}
	return md, nil
}

func mustCompileSchema(schema *descriptorpb.FileDescriptorProto, messageName string) protoreflect.MessageDescriptor {
	md, err := compileSchema(schema, messageName)
	if err != nil {
		panic(err)
	}
	return md
}
